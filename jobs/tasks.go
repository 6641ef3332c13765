package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan flags products whose stock dropped under the threshold.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskIntegritySweep verifies the one-inventory-row-per-product invariant.
	TaskIntegritySweep = "inventory:integrity_sweep"
)

// LowStockScanPayload carries the threshold to scan against. Zero means
// "use the configured default".
type LowStockScanPayload struct {
	Threshold int64 `json:"threshold"`
}

// NewLowStockScanTask constructs an Asynq task for the low-stock scan.
func NewLowStockScanTask(threshold int64) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockScanPayload{Threshold: threshold})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}

// IntegritySweepPayload carries scheduling metadata.
type IntegritySweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewIntegritySweepTask constructs an Asynq task for the integrity sweep.
func NewIntegritySweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(IntegritySweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegritySweep, body, asynq.Queue(QueueDefault)), nil
}
