package main

import (
	"context"
	"log/slog"
	"os"

	"alerts/config"
	"alerts/internal/delivery"
	"alerts/internal/delivery/scheduler"
	"alerts/internal/infra/catalog"
	logs "alerts/internal/infra/log"
	"alerts/internal/infra/metrics"
	"alerts/internal/infra/persistence"
	"alerts/internal/infra/pubsub"
	"alerts/internal/infra/webpush"
	"alerts/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		persistence.Module,
		metrics.Module,
		pubsub.Module,
	)
}

// The engine is wired even when ticks are published so a scheduler without
// Pub/Sub can run cycles in-process.
func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			catalog.New,
			webpush.NewCrypto,
			webpush.New,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAlertService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				scheduler.New,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Scheduler stopped with error", slog.Any("error", err))

				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
