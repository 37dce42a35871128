package market_data

import (
	"go.uber.org/fx"

	"inside_value_bot/internal/modules/market_data/service"
)

func Module() fx.Option {
	return fx.Module("market_data",
		fx.Provide(
			service.NewProvider, // -> *service.Provider
		),
	)
}
