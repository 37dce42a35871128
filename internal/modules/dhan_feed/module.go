package dhan_feed

import (
	"context"
	"time"

	"go.uber.org/fx"

	catalog "inside_value_bot/internal/modules/catalog/service"
	"inside_value_bot/internal/modules/config"
	"inside_value_bot/internal/modules/dhan_feed/service"
	healthsvc "inside_value_bot/internal/modules/health/service"
	"inside_value_bot/pkg/logger"
)

// Module поднимает тикер-кэш поверх вебсокета маркет-фида.
// При выключенном фиде клиент nil, брокер ходит за LTP по REST.
func Module() fx.Option {
	return fx.Module("dhan_feed",
		fx.Provide(
			func(cfg *config.Config) *service.Client {
				if !cfg.Feed.Enabled {
					return nil
				}
				return service.NewClient(cfg.Feed.URL, cfg.Dhan.ClientID, cfg.Dhan.AccessToken)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, f *service.Client, cat *catalog.Catalog, health *healthsvc.State) {
			if f == nil {
				logger.Info("[FEED] disabled, quotes go over REST")
				return
			}

			ids := make([]string, 0, len(cfg.Watchlist))
			for _, sym := range cfg.Watchlist {
				if inst, ok := cat.Resolve(sym); ok {
					ids = append(ids, inst.SecurityID)
				}
			}
			f.Subscribe(ids...)

			runCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go f.Start(runCtx)
					go func() {
						t := time.NewTicker(5 * time.Second)
						defer t.Stop()
						for {
							select {
							case <-runCtx.Done():
								return
							case <-t.C:
								health.SetFeedUp(f.Connected())
							}
						}
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
