package main

import (
	"context"
	"log"

	"go.uber.org/fx"

	"inside_value_bot/internal/modules/bootstrap"
	"inside_value_bot/internal/modules/catalog"
	"inside_value_bot/internal/modules/config"
	"inside_value_bot/internal/modules/dhan_client"
	"inside_value_bot/internal/modules/dhan_feed"
	"inside_value_bot/internal/modules/health"
	"inside_value_bot/internal/modules/journal"
	"inside_value_bot/internal/modules/market_data"
	"inside_value_bot/internal/modules/postgres"
	"inside_value_bot/internal/modules/scanner"
	telegram "inside_value_bot/internal/modules/telegram_bot"
	"inside_value_bot/pkg/logger"
	"inside_value_bot/pkg/tracing"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("inside_value_scanner")
	tracing.SetServiceName("inside_value_scanner")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		catalog.Module(),
		dhan_client.Module(),
		dhan_feed.Module(),
		market_data.Module(),
		journal.Module(),
		health.Module(),
		bootstrap.Module(),
		scanner.Module(),
		telegram.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			if cfg.Jaeger.Host == "" {
				return
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				logger.Error("[BOOT] jaeger init: %v", err)
				return
			}
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					closeTracer()
					return nil
				},
			})
		}),
	)

	app.Run()
}
