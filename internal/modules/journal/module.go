package journal

import (
	"go.uber.org/fx"

	"inside_value_bot/internal/modules/config"
	"inside_value_bot/internal/modules/journal/service"
	"inside_value_bot/internal/modules/journal/service/pg"
	"inside_value_bot/pkg/db"
)

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(cfg *config.Config) *service.Journal {
				return service.NewJournal(cfg.SignalsDir, cfg.ReportsDir)
			},
			func(txm *db.PgTxManager) *pg.TradeLog {
				return pg.NewTradeLog(txm)
			},
		),
	)
}
