package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// DuplicateCounter is the slice of the inventory repository the sweep needs.
type DuplicateCounter interface {
	CountDuplicates(ctx context.Context) (int64, error)
}

// IntegritySweepJob asserts that no product holds more than one inventory
// row. The unique constraint should make violations impossible; a non-zero
// count means the schema drifted and is worth an alert.
type IntegritySweepJob struct {
	store  DuplicateCounter
	logger *slog.Logger
}

// NewIntegritySweepJob initialises the integrity sweep handler.
func NewIntegritySweepJob(store DuplicateCounter, logger *slog.Logger) *IntegritySweepJob {
	return &IntegritySweepJob{store: store, logger: logger}
}

// Handle executes the sweep.
func (j *IntegritySweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("integrity sweep: handler not configured")
	}
	var payload IntegritySweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	count, err := j.store.CountDuplicates(ctx)
	if err != nil {
		j.logger.Error("integrity sweep failed", slog.Any("error", err))
		return err
	}
	if count > 0 {
		j.logger.Error("inventory invariant violated",
			slog.Int64("products_with_duplicates", count))
		return fmt.Errorf("integrity sweep: %d products with duplicate inventory rows", count)
	}
	j.logger.Info("integrity sweep clean")
	return nil
}
