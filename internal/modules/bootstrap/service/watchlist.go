package service

import (
	catalog "inside_value_bot/internal/modules/catalog/service"
	"inside_value_bot/internal/modules/config"
	"inside_value_bot/pkg/logger"
)

// Watchlist — символы из конфига, найденные в справочнике инструментов.
type Watchlist struct {
	Symbols []string
}

func NewWatchlist(cfg *config.Config, cat *catalog.Catalog) *Watchlist {
	out := make([]string, 0, len(cfg.Watchlist))
	for _, sym := range cfg.Watchlist {
		if _, ok := cat.Resolve(sym); !ok {
			logger.Error("[BOOT] symbol %s not found in instrument catalog, skipping", sym)
			continue
		}
		out = append(out, sym)
	}
	logger.Info("[BOOT] watchlist resolved: %d of %d symbols", len(out), len(cfg.Watchlist))
	return &Watchlist{Symbols: out}
}
