// Package records validates and orchestrates CRUD operations over farms,
// crops, tasks and transactions.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// ErrValidation wraps every input rejection.
var ErrValidation = errors.New("validation failed")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Store is the persistence the service needs.
type Store interface {
	ListFarms(ctx context.Context) ([]models.Farm, error)
	GetFarm(ctx context.Context, id int64) (models.Farm, error)
	CreateFarm(ctx context.Context, farm models.Farm) (models.Farm, error)
	UpdateFarm(ctx context.Context, id int64, farm models.Farm) (models.Farm, error)
	DeleteFarm(ctx context.Context, id int64) error

	ListCrops(ctx context.Context) ([]models.Crop, error)
	GetCrop(ctx context.Context, id int64) (models.Crop, error)
	CreateCrop(ctx context.Context, crop models.Crop) (models.Crop, error)
	UpdateCrop(ctx context.Context, id int64, crop models.Crop) (models.Crop, error)
	DeleteCrop(ctx context.Context, id int64) error

	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (models.Transaction, error)
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Service implements the record workflows.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a records service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
