package catalog

import (
	"go.uber.org/fx"

	"inside_value_bot/internal/modules/catalog/service"
	"inside_value_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("catalog",
		fx.Provide(
			func(cfg *config.Config) (*service.Catalog, error) {
				return service.Load(cfg.CatalogPath)
			},
		),
	)
}
