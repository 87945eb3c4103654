package usecase

import (
	"context"

	"alerts/internal/domain/entity"
)

// Cycle triggers
const (
	TriggerAPI       = "api"
	TriggerScheduler = "scheduler"
	TriggerWorker    = "worker"
)

// CycleOptions controls one evaluation cycle
type CycleOptions struct {
	Force   bool   // Ignore seen state for this cycle only
	DryRun  bool   // Fetch, match and diff without notifying or persisting
	Debug   bool   // Caller wants the full summary back
	Trigger string // Who started the cycle, used for metrics and logs
}

// AlertUsecase defines the alert evaluation use cases
type AlertUsecase interface {
	// RunCycle evaluates every stored subscriber record once. The summary is
	// returned even when the cycle is abandoned part way.
	RunCycle(ctx context.Context, opts CycleOptions) (*entity.CycleSummary, error)

	// TestAlert evaluates one alert for a stored subscription ignoring seen state
	// and delivers a notification without persisting anything.
	TestAlert(ctx context.Context, endpoint string, alert entity.Alert) (*entity.AlertSummary, error)
}
