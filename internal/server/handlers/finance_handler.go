package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/finance"
)

// FinanceService is the reporting surface the finance endpoints need.
type FinanceService interface {
	MonthlySeries(ctx context.Context, year *int) ([]models.MonthlyBucket, error)
	YearlySeries(ctx context.Context) ([]models.YearlyBucket, error)
	CategoryBreakdown(ctx context.Context, typ models.TransactionType, scope finance.Scope) ([]models.CategoryShare, error)
	SummaryRatios(ctx context.Context) (models.SummaryRatios, error)
	Report(ctx context.Context, year *int) (models.FinanceReport, error)
	Dashboard(ctx context.Context) (models.Dashboard, error)
	LatestArchived(ctx context.Context) (models.FinanceReport, error)
}

// FinanceHandler serves the aggregated finance views and the dashboard.
type FinanceHandler struct {
	svc    FinanceService
	logger *zap.Logger
}

// NewFinanceHandler constructs the HTTP handler adapter.
func NewFinanceHandler(svc FinanceService, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, logger: logger}
}

// Monthly handles GET /api/finance/monthly?year=.
func (h *FinanceHandler) Monthly(c *gin.Context) {
	year, err := optionalYear(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	series, err := h.svc.MonthlySeries(c.Request.Context(), year)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// Yearly handles GET /api/finance/yearly.
func (h *FinanceHandler) Yearly(c *gin.Context) {
	series, err := h.svc.YearlySeries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// Categories handles GET /api/finance/categories?type=&scope=.
func (h *FinanceHandler) Categories(c *gin.Context) {
	typ, err := models.ParseTransactionType(c.Query("type"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	scope, err := finance.ParseScope(c.Query("scope"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	shares, err := h.svc.CategoryBreakdown(c.Request.Context(), typ, scope)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, shares)
}

// Summary handles GET /api/finance/summary.
func (h *FinanceHandler) Summary(c *gin.Context) {
	ratios, err := h.svc.SummaryRatios(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ratios)
}

// Report handles GET /api/finance/report?year=.
func (h *FinanceHandler) Report(c *gin.Context) {
	year, err := optionalYear(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	report, err := h.svc.Report(c.Request.Context(), year)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LatestReport handles GET /api/finance/report/latest.
func (h *FinanceHandler) LatestReport(c *gin.Context) {
	report, err := h.svc.LatestArchived(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dashboard handles GET /api/dashboard.
func (h *FinanceHandler) Dashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
