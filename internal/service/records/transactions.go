package records

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// TransactionFilter narrows a transaction listing. Type is all, income or
// expense; Search matches description or category, case-insensitively.
type TransactionFilter struct {
	Type   string
	Search string
}

// ListTransactions returns transactions matching filter in insertion order.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var typ models.TransactionType
	if filter.Type != "" && filter.Type != "all" {
		parsed, err := models.ParseTransactionType(filter.Type)
		if err != nil {
			return nil, invalid("%v", err)
		}
		typ = parsed
	}

	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	matched := txs[:0]
	for _, tx := range txs {
		if typ != "" && tx.Type != typ {
			continue
		}
		if filter.Search != "" && !containsFold(tx.Description, filter.Search) && !containsFold(tx.Category, filter.Search) {
			continue
		}
		matched = append(matched, tx)
	}
	return matched, nil
}

func (s *Service) GetTransaction(ctx context.Context, id int64) (models.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// CreateTransaction validates and records a transaction.
func (s *Service) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if err := s.validateTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}
	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Info("transaction recorded",
		zap.Int64("transaction_id", created.ID),
		zap.String("type", string(created.Type)),
		zap.String("category", created.Category),
		zap.String("amount", created.Amount.StringFixed(2)))
	return created, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, id int64, tx models.Transaction) (models.Transaction, error) {
	if err := s.validateTransaction(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}
	return s.store.UpdateTransaction(ctx, id, tx)
}

func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.DeleteTransaction(ctx, id)
}

func (s *Service) validateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Description = strings.TrimSpace(tx.Description)
	if err := tx.Validate(); err != nil {
		return invalid("%v", err)
	}
	if tx.FarmID != nil {
		return s.requireFarm(ctx, *tx.FarmID)
	}
	return nil
}
