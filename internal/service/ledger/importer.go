// Package ledger keeps the transaction store in step with the ledger spreadsheet.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/repository/sheets"
)

// TransactionCreator records imported transactions.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
}

// SyncResult summarises one import pass.
type SyncResult struct {
	Imported int `json:"imported"`
	Rejected int `json:"rejected"`
	LastRow  int `json:"lastRow"`
}

// Importer pulls new ledger rows into the store and appends locally recorded
// transactions to the sheet.
type Importer struct {
	repo       sheets.Repository
	creator    TransactionCreator
	sheetRange string
	logger     *zap.Logger

	mu       sync.Mutex
	lastRow  int
	exported map[string]int
}

// NewImporter wires an importer for sheetRange.
func NewImporter(repo sheets.Repository, creator TransactionCreator, sheetRange string, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		repo:       repo,
		creator:    creator,
		sheetRange: sheetRange,
		logger:     logger,
		exported:   make(map[string]int),
	}
}

// Sync imports every well-formed row below the last imported one. Rows this
// importer exported itself are recognised and not imported twice.
func (i *Importer) Sync(ctx context.Context) (SyncResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	rows, err := i.repo.ReadRange(ctx, i.sheetRange)
	if err != nil {
		return SyncResult{LastRow: i.lastRow}, fmt.Errorf("read ledger range: %w", err)
	}

	parsed, rejected := sheets.ParseLedgerRows(rows)
	result := SyncResult{LastRow: i.lastRow}

	for _, rowErr := range rejected {
		if rowErr.Row <= i.lastRow {
			continue
		}
		result.Rejected++
		i.logger.Debug("skip malformed ledger row", zap.Int("row", rowErr.Row), zap.Error(rowErr.Err))
	}

	for _, row := range parsed {
		if row.Row <= i.lastRow {
			continue
		}
		key := fingerprint(row.Transaction)
		if i.exported[key] > 0 {
			i.exported[key]--
			result.LastRow = row.Row
			continue
		}

		if _, err := i.creator.CreateTransaction(ctx, row.Transaction); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				i.lastRow = result.LastRow
				return result, err
			}
			result.Rejected++
			i.logger.Warn("ledger row refused by store", zap.Int("row", row.Row), zap.Error(err))
		} else {
			result.Imported++
		}
		result.LastRow = row.Row
	}

	if n := len(rows); n > result.LastRow {
		result.LastRow = n
	}
	i.lastRow = result.LastRow

	i.logger.Info("ledger sync finished",
		zap.Int("imported", result.Imported),
		zap.Int("rejected", result.Rejected),
		zap.Int("last_row", result.LastRow))
	return result, nil
}

// Export appends tx to the ledger sheet.
func (i *Importer) Export(ctx context.Context, tx models.Transaction) error {
	if err := i.repo.WriteRow(ctx, i.sheetRange, sheets.FormatLedgerRow(tx)); err != nil {
		return fmt.Errorf("append ledger row: %w", err)
	}

	i.mu.Lock()
	i.exported[fingerprint(tx)]++
	i.mu.Unlock()
	return nil
}

// fingerprint identifies a transaction by the columns the sheet stores.
func fingerprint(tx models.Transaction) string {
	cells := sheets.FormatLedgerRow(tx)
	parts := make([]string, len(cells))
	for idx, c := range cells {
		parts[idx] = fmt.Sprint(c)
	}
	return strings.Join(parts, "|")
}
