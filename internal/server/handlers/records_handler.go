package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/service/records"
)

// RecordsHandler exposes CRUD endpoints for farms, crops, tasks and transactions.
type RecordsHandler struct {
	svc    *records.Service
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc *records.Service, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

type farmRequest struct {
	Name     string          `json:"name" binding:"required"`
	Location string          `json:"location"`
	Size     float64         `json:"size"`
	Unit     models.AreaUnit `json:"unit"`
}

func (r farmRequest) toModel() models.Farm {
	return models.Farm{Name: r.Name, Location: r.Location, Size: r.Size, Unit: r.Unit}
}

type cropRequest struct {
	FarmID          int64             `json:"farmId" binding:"required"`
	Name            string            `json:"name" binding:"required"`
	Field           string            `json:"field"`
	PlantingDate    string            `json:"plantingDate"`
	ExpectedHarvest string            `json:"expectedHarvest"`
	Status          models.CropStatus `json:"status"`
}

func (r cropRequest) toModel() (models.Crop, error) {
	planted, err := parseDate("plantingDate", r.PlantingDate)
	if err != nil {
		return models.Crop{}, err
	}
	harvest, err := parseDate("expectedHarvest", r.ExpectedHarvest)
	if err != nil {
		return models.Crop{}, err
	}
	return models.Crop{
		FarmID:          r.FarmID,
		Name:            r.Name,
		Field:           r.Field,
		PlantingDate:    planted,
		ExpectedHarvest: harvest,
		Status:          r.Status,
	}, nil
}

type taskRequest struct {
	FarmID    int64  `json:"farmId" binding:"required"`
	CropID    *int64 `json:"cropId"`
	Title     string `json:"title" binding:"required"`
	Type      string `json:"type"`
	DueDate   string `json:"dueDate"`
	Completed *bool  `json:"completed"`
}

func (r taskRequest) toModel() (models.Task, error) {
	due, err := parseDate("dueDate", r.DueDate)
	if err != nil {
		return models.Task{}, err
	}
	task := models.Task{FarmID: r.FarmID, CropID: r.CropID, Title: r.Title, Type: r.Type, DueDate: due}
	if r.Completed != nil {
		task.Completed = *r.Completed
	}
	return task, nil
}

type transactionRequest struct {
	Type        string          `json:"type" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	FarmID      *int64          `json:"farmId"`
}

func (r transactionRequest) toModel() (models.Transaction, error) {
	typ, err := models.ParseTransactionType(r.Type)
	if err != nil {
		return models.Transaction{}, err
	}
	date, err := parseDate("date", r.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Type:        typ,
		Category:    r.Category,
		Amount:      r.Amount,
		Date:        date,
		Description: r.Description,
		FarmID:      r.FarmID,
	}, nil
}

func bind[T any](c *gin.Context) (T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, badRequest("invalid request body: %v", err)
	}
	return req, nil
}

// ListFarms handles GET /api/farms.
func (h *RecordsHandler) ListFarms(c *gin.Context) {
	farms, err := h.svc.ListFarms(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farms)
}

func (h *RecordsHandler) GetFarm(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	farm, err := h.svc.GetFarm(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

func (h *RecordsHandler) CreateFarm(c *gin.Context) {
	req, err := bind[farmRequest](c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	farm, err := h.svc.CreateFarm(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, farm)
}

func (h *RecordsHandler) UpdateFarm(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	req, err := bind[farmRequest](c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	farm, err := h.svc.UpdateFarm(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, farm)
}

func (h *RecordsHandler) DeleteFarm(c *gin.Context) {
	h.deleteByID(c, h.svc.DeleteFarm)
}

// ListCrops handles GET /api/crops?status=.
func (h *RecordsHandler) ListCrops(c *gin.Context) {
	filter := records.CropFilter{Status: models.CropStatus(c.Query("status"))}
	crops, err := h.svc.ListCrops(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, crops)
}

func (h *RecordsHandler) GetCrop(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	crop, err := h.svc.GetCrop(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, crop)
}

// CropLifecycle handles GET /api/crops/:id/lifecycle.
func (h *RecordsHandler) CropLifecycle(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	life, err := h.svc.CropLifecycle(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, life)
}

func (h *RecordsHandler) CreateCrop(c *gin.Context) {
	crop, err := bindModel(c, cropRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateCrop(c.Request.Context(), crop)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecordsHandler) UpdateCrop(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	crop, err := bindModel(c, cropRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateCrop(c.Request.Context(), id, crop)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecordsHandler) DeleteCrop(c *gin.Context) {
	h.deleteByID(c, h.svc.DeleteCrop)
}

// ListTasks handles GET /api/tasks?status=&q=.
func (h *RecordsHandler) ListTasks(c *gin.Context) {
	filter := records.TaskFilter{Status: c.Query("status"), Search: c.Query("q")}
	tasks, err := h.svc.ListTasks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *RecordsHandler) GetTask(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	task, err := h.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *RecordsHandler) CreateTask(c *gin.Context) {
	task, err := bindModel(c, taskRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateTask(c.Request.Context(), task)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecordsHandler) UpdateTask(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	task, err := bindModel(c, taskRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateTask(c.Request.Context(), id, task)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ToggleTask handles POST /api/tasks/:id/toggle.
func (h *RecordsHandler) ToggleTask(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	task, err := h.svc.ToggleTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *RecordsHandler) DeleteTask(c *gin.Context) {
	h.deleteByID(c, h.svc.DeleteTask)
}

// ListTransactions handles GET /api/transactions?type=&q=.
func (h *RecordsHandler) ListTransactions(c *gin.Context) {
	filter := records.TransactionFilter{Type: c.Query("type"), Search: c.Query("q")}
	txs, err := h.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *RecordsHandler) GetTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	tx, err := h.svc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *RecordsHandler) CreateTransaction(c *gin.Context) {
	tx, err := bindModel(c, transactionRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.svc.CreateTransaction(c.Request.Context(), tx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecordsHandler) UpdateTransaction(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	tx, err := bindModel(c, transactionRequest.toModel)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateTransaction(c.Request.Context(), id, tx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecordsHandler) DeleteTransaction(c *gin.Context) {
	h.deleteByID(c, h.svc.DeleteTransaction)
}

func bindModel[Req any, M any](c *gin.Context, convert func(Req) (M, error)) (M, error) {
	req, err := bind[Req](c)
	if err != nil {
		var zero M
		return zero, err
	}
	return convert(req)
}

func (h *RecordsHandler) deleteByID(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
