package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/finance"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
	"github.com/mamadbah2/farmledger/internal/repository/mongodb"
	"github.com/mamadbah2/farmledger/internal/service/records"
	"github.com/mamadbah2/farmledger/internal/service/reporting"
)

const dateLayout = "2006-01-02"

var errBadRequest = errors.New("bad request")

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, records.ErrValidation),
		errors.Is(err, finance.ErrInvalidScope),
		errors.Is(err, models.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, memory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, mongodb.ErrNoReport):
		c.JSON(http.StatusNotFound, gin.H{"error": "no archived report"})
	case errors.Is(err, reporting.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid id %q", c.Param("id"))
	}
	return id, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, badRequest("%s is required", field)
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, badRequest("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

func optionalYear(c *gin.Context) (*int, error) {
	raw := c.Query("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return nil, badRequest("invalid year %q", raw)
	}
	return &year, nil
}
