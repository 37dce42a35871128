package bootstrap

import (
	"context"

	"go.uber.org/fx"

	bootstrap "inside_value_bot/internal/modules/bootstrap/service"
	"inside_value_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			bootstrap.NewWatchlist, // -> *bootstrap.Watchlist
			bootstrap.NewWarmuper,  // -> *bootstrap.Warmuper
		),
		fx.Invoke(func(lc fx.Lifecycle, wl *bootstrap.Watchlist, wu *bootstrap.Warmuper) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := wu.Warmup(context.Background(), wl.Symbols); err != nil {
							logger.Error("[BOOT] warmup error: %v", err)
						}
					}()
					return nil
				},
			})
		}),
	)
}
