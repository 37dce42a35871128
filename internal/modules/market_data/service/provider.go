package service

import (
	"context"
	"fmt"
	"time"

	catalog "inside_value_bot/internal/modules/catalog/service"
	dhan "inside_value_bot/internal/modules/dhan_client/service"
	"inside_value_bot/internal/models"
	"inside_value_bot/pkg/logger"
)

const (
	intradayInterval = "15"
	dailyLookback    = 10
	fallbackCandles  = 30
)

// Provider — дневной бар и растущий внутридневной бар поверх /charts.
type Provider struct {
	client  *dhan.Client
	catalog *catalog.Catalog
}

func NewProvider(client *dhan.Client, cat *catalog.Catalog) *Provider {
	return &Provider{client: client, catalog: cat}
}

func (p *Provider) securityID(symbol string) (string, error) {
	in, ok := p.catalog.Resolve(symbol)
	if !ok {
		return "", fmt.Errorf("unknown symbol %q", symbol)
	}
	return in.SecurityID, nil
}

// DailyBar — последний завершённый дневной бар (сегодняшний не берём).
func (p *Provider) DailyBar(ctx context.Context, symbol, exchange string) (models.Bar, error) {
	id, err := p.securityID(symbol)
	if err != nil {
		return models.Bar{}, err
	}

	s, err := p.client.DailyCandles(ctx, id, exchange, dailyLookback)
	if err != nil {
		return models.Bar{}, fmt.Errorf("DailyBar %s: %w", symbol, err)
	}
	if s.Len() == 0 {
		return models.Bar{}, fmt.Errorf("DailyBar %s: empty series", symbol)
	}

	i := s.Len() - 1
	today := time.Now().Format("2006-01-02")
	if len(s.Timestamp) == s.Len() {
		if time.Unix(s.Timestamp[i], 0).Format("2006-01-02") == today {
			i--
		}
	}
	if i < 0 {
		return models.Bar{}, fmt.Errorf("DailyBar %s: no completed day", symbol)
	}

	bar := models.Bar{
		Open:     s.Open[i],
		High:     s.High[i],
		Low:      s.Low[i],
		Close:    s.Close[i],
		Complete: true,
	}
	if len(s.Timestamp) == s.Len() {
		bar.Date = time.Unix(s.Timestamp[i], 0)
	}
	return bar, nil
}

// RunningBar агрегирует сегодняшние 15-минутки в один незакрытый бар.
// Если у серии нет таймстемпов, берём последние 30 свечей и живём с этим.
func (p *Provider) RunningBar(ctx context.Context, symbol, exchange string) (models.Bar, error) {
	id, err := p.securityID(symbol)
	if err != nil {
		return models.Bar{}, err
	}

	s, err := p.client.IntradayCandles(ctx, id, exchange, intradayInterval)
	if err != nil {
		return models.Bar{}, fmt.Errorf("RunningBar %s: %w", symbol, err)
	}
	if s.Len() == 0 {
		return models.Bar{}, fmt.Errorf("RunningBar %s: empty series", symbol)
	}

	first, last := 0, s.Len()-1

	if len(s.Timestamp) == s.Len() {
		today := time.Now().Format("2006-01-02")
		first = -1
		for i := 0; i < s.Len(); i++ {
			if time.Unix(s.Timestamp[i], 0).Format("2006-01-02") == today {
				first = i
				break
			}
		}
		if first < 0 {
			return models.Bar{}, fmt.Errorf("RunningBar %s: no candles for today", symbol)
		}
	} else {
		logger.Error("[DATA] %s: intraday series has no timestamps, using last %d candles", symbol, fallbackCandles)
		if s.Len() > fallbackCandles {
			first = s.Len() - fallbackCandles
		}
	}

	bar := models.Bar{
		Open:     s.Open[first],
		High:     s.High[first],
		Low:      s.Low[first],
		Close:    s.Close[last],
		Complete: false,
	}
	for i := first; i <= last; i++ {
		if s.High[i] > bar.High {
			bar.High = s.High[i]
		}
		if s.Low[i] < bar.Low {
			bar.Low = s.Low[i]
		}
	}
	if len(s.Timestamp) == s.Len() {
		bar.Date = time.Unix(s.Timestamp[last], 0)
	}

	return bar, nil
}
