package service

import (
	"context"
	"time"
)

// CycleEvent asks a worker to run one alert evaluation cycle
type CycleEvent struct {
	RequestID   string    `json:"request_id,omitempty"` // For distributed tracing
	CycleID     string    `json:"cycle_id"`
	Source      string    `json:"source"` // api or scheduler
	Force       bool      `json:"force"`
	RequestedAt time.Time `json:"requested_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishCycleEvent publishes a cycle request for async processing
	PublishCycleEvent(ctx context.Context, event *CycleEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
