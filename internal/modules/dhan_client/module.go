package dhan_client

import (
	"go.uber.org/fx"

	"inside_value_bot/internal/modules/dhan_client/service"
)

func Module() fx.Option {
	return fx.Module("dhan_client",
		fx.Provide(
			service.NewClient, // -> *service.Client
			service.NewBroker, // -> *service.Broker
		),
	)
}
