package telegram

import (
	"context"

	"go.uber.org/fx"

	"inside_value_bot/internal/modules/config"
	"inside_value_bot/internal/modules/telegram_bot/service"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Сервис Telegram: без ботов в конфиге падаем на Stdout
		fx.Provide(
			func(cfg *config.Config) notify.Notifier {
				t, err := service.NewTelegram(cfg)
				if err != nil {
					logger.Error("[ALERT] telegram disabled: %v", err)
					return notify.NewStdout()
				}
				return t
			},
		),

		// 2. Long-polling /status через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, n notify.Notifier) {
				t, ok := n.(*service.Telegram)
				if !ok {
					return
				}
				runCtx, cancel := context.WithCancel(context.Background())
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						t.Start(runCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						cancel()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
