package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/abelheddy/simplepos/internal/inventory"
)

// StockLister is the slice of the inventory repository the scan needs.
type StockLister interface {
	ListBelow(ctx context.Context, threshold int64) ([]inventory.Record, error)
}

// LowStockScanJob reports products whose stock is running out.
type LowStockScanJob struct {
	store     StockLister
	logger    *slog.Logger
	threshold int64
}

// NewLowStockScanJob initialises the low-stock scan handler.
func NewLowStockScanJob(store StockLister, logger *slog.Logger, threshold int64) *LowStockScanJob {
	return &LowStockScanJob{store: store, logger: logger, threshold: threshold}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	threshold := payload.Threshold
	if threshold <= 0 {
		threshold = j.threshold
	}

	records, err := j.store.ListBelow(ctx, threshold)
	if err != nil {
		j.logger.Error("low stock scan failed", slog.Any("error", err))
		return err
	}
	for _, rec := range records {
		j.logger.Warn("low stock",
			slog.Int64("product_id", int64(rec.ProductID)),
			slog.Int64("cantidad", rec.Quantity),
			slog.String("ubicacion", rec.Location))
	}
	j.logger.Info("low stock scan finished",
		slog.Int64("threshold", threshold),
		slog.Int("flagged", len(records)))
	return nil
}
