// Package scheduler triggers alert cycles on a fixed interval.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"alerts/config"
	"alerts/internal/delivery"
	deliverycontext "alerts/internal/delivery/context"
	"alerts/internal/domain/lifecycle"
	"alerts/internal/domain/service"
	"alerts/internal/errors"
	"alerts/internal/usecase"
	"alerts/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type scheduler struct {
	logger     *slog.Logger
	alerts     usecase.AlertUsecase
	publisher  service.EventPublisher
	interval   time.Duration
	runOnStart bool
	publish    bool

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Params holds dependencies for the scheduler, injected by Fx.
type Params struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	Alerts    usecase.AlertUsecase
	Publisher service.EventPublisher
}

// New creates the scheduler. With Pub/Sub configured every tick publishes a
// cycle event for the workers; otherwise the cycle runs in this process.
func New(params Params) delivery.Delivery {
	s := newScheduler(params)

	params.Lc.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s
}

func newScheduler(params Params) *scheduler {
	return &scheduler{
		logger:     params.Logger,
		alerts:     params.Alerts,
		publisher:  params.Publisher,
		interval:   params.Cfg.Scheduler.Interval,
		runOnStart: params.Cfg.Scheduler.RunOnStart,
		publish:    params.Cfg.PubSub != nil && params.Cfg.PubSub.Provider != "",
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Serve ticks until ctx is done or the app stops. A tick that arrives while a
// cycle is still running is dropped.
func (s *scheduler) Serve(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("scheduler already started")
	}
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	s.logger.Info("Starting alert scheduler",
		slog.String("interval", util.FormatDuration(s.interval)),
		slog.Bool("run_on_start", s.runOnStart),
		slog.Bool("publish", s.publish),
	)

	if s.runOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *scheduler) tick(ctx context.Context) {
	requestID := uuid.NewString()
	ctx, logger := deliverycontext.Attach(ctx, s.logger, requestID)

	start := time.Now()
	if err := s.trigger(ctx, requestID); err != nil {
		logger.Error("Scheduled alert cycle failed",
			slog.String("elapsed", util.FormatDuration(time.Since(start))),
			slog.Any("error", err),
		)
	}
}

func (s *scheduler) trigger(ctx context.Context, requestID string) error {
	start := time.Now()
	logger := deliverycontext.LoggerFrom(ctx, s.logger)

	if s.publish {
		event := &service.CycleEvent{
			RequestID:   requestID,
			CycleID:     uuid.NewString(),
			Source:      usecase.TriggerScheduler,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishCycleEvent(ctx, event); err != nil {
			return errors.Wrap(err, "failed to publish cycle event")
		}
		logger.Info("Published cycle event", slog.String("cycle_id", event.CycleID))

		return nil
	}

	summary, err := s.alerts.RunCycle(ctx, usecase.CycleOptions{Trigger: usecase.TriggerScheduler})
	if err != nil {
		return err
	}
	logger.Info("Scheduled alert cycle completed",
		slog.String("elapsed", util.FormatDuration(time.Since(start))),
		slog.Int("subscriptions", summary.SubscriptionsProcessed),
		slog.Int("queued", summary.NotificationsQueued),
		slog.Int("sent", summary.NotificationsSent),
	)

	return nil
}

func (s *scheduler) stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if !s.started.Load() {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Stopping alert scheduler")

	select {
	case <-s.doneCh:
		return nil
	case <-waitCtx.Done():
		return errors.Wrap(waitCtx.Err(), "scheduler did not stop in time")
	}
}
