package scanner

import (
	"context"

	"go.uber.org/fx"

	bootstrap "inside_value_bot/internal/modules/bootstrap/service"
	catalog "inside_value_bot/internal/modules/catalog/service"
	"inside_value_bot/internal/modules/config"
	dhan "inside_value_bot/internal/modules/dhan_client/service"
	healthsvc "inside_value_bot/internal/modules/health/service"
	journal "inside_value_bot/internal/modules/journal/service"
	"inside_value_bot/internal/modules/journal/service/pg"
	market "inside_value_bot/internal/modules/market_data/service"
	"inside_value_bot/internal/modules/scanner/service"
	telegramsvc "inside_value_bot/internal/modules/telegram_bot/service"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

func Module() fx.Option {
	return fx.Module("scanner",
		fx.Provide(
			service.NewActiveSymbols,

			func(b *dhan.Broker) service.Broker { return b },
			func(p *market.Provider) service.MarketData { return p },
			func(t *pg.TradeLog) service.TradeRecorder { return t },
			func(c *catalog.Catalog) service.LotSizer { return c },
			func(s *healthsvc.State) service.Health { return s },

			func(cfg *config.Config) (service.MarketHours, error) {
				return service.NewMarketHours(cfg.MarketOpen, cfg.MarketClose, cfg.Timezone)
			},

			func(b service.Broker, n notify.Notifier, tr service.TradeRecorder, cfg *config.Config) *service.Executor {
				return service.NewExecutor(b, n, tr, service.ExecutorConfig{
					SLPercent:        cfg.SLPercent,
					TargetPercent:    cfg.TargetPercent,
					TickSize:         cfg.TickSize,
					FillAttempts:     cfg.FillAttempts,
					FillDelay:        cfg.FillDelay,
					FlipFillAttempts: cfg.FlipFillAttempts,
					FlipFillDelay:    cfg.FlipFillDelay,
				})
			},

			service.NewMonitor,

			func(
				md service.MarketData,
				b service.Broker,
				exec *service.Executor,
				mon *service.Monitor,
				locks *service.ActiveSymbols,
				jr *journal.Journal,
				n notify.Notifier,
				hours service.MarketHours,
				lots service.LotSizer,
				health service.Health,
				wl *bootstrap.Watchlist,
				cfg *config.Config,
			) *service.Scheduler {
				return service.NewScheduler(md, b, exec, mon, locks, jr, n, hours, lots, health, service.SchedulerConfig{
					Watchlist:            wl.Symbols,
					ScanInterval:         cfg.ScanInterval,
					HotListInterval:      cfg.HotListInterval,
					ActiveTradesInterval: cfg.ActiveTradesInterval,
					BatchSize:            cfg.BatchSize,
					SymbolDelay:          cfg.SymbolDelay,
					BatchDelay:           cfg.BatchDelay,
					DefaultQuantity:      cfg.DefaultQuantity,
				})
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, sched *service.Scheduler, n notify.Notifier, sd fx.Shutdowner) {
			if tg, ok := n.(*telegramsvc.Telegram); ok {
				tg.SetStatusSource(sched)
			}

			runCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go func() {
						if err := sched.Run(runCtx); err != nil && runCtx.Err() == nil {
							logger.Error("[SCAN] scheduler stopped: %v", err)
						}
						// день окончен — гасим приложение целиком
						_ = sd.Shutdown()
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
