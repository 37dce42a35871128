package service

import (
	"context"
	"fmt"
	"sync"

	"inside_value_bot/internal/helper"
	dhan "inside_value_bot/internal/modules/dhan_client/service"
	market "inside_value_bot/internal/modules/market_data/service"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

type Warmuper struct {
	client *dhan.Client
	md     *market.Provider
	n      notify.Notifier

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewWarmuper(client *dhan.Client, md *market.Provider, n notify.Notifier) *Warmuper {
	return &Warmuper{
		client: client,
		md:     md,
		n:      n,
		sem:    make(chan struct{}, 8), // 8 параллельных символов
	}
}

// Warmup проверяет доступ к API и прогревает дневные бары по watchlist.
func (w *Warmuper) Warmup(ctx context.Context, symbols []string) error {
	if len(symbols) == 0 {
		return nil
	}

	funds, err := w.client.FundLimit(ctx)
	if err != nil {
		return fmt.Errorf("fund limit check: %w", err)
	}
	logger.Info("[BOOT] broker reachable, available balance ₹%.2f", funds.AvailableBalance)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		warmed   int
	)

	for _, sym := range symbols {
		sym := sym
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.sem <- struct{}{}
			defer func() { <-w.sem }()

			if _, err := w.md.DailyBar(ctx, sym, helper.ExchangeFor(sym)); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("warmup daily bar %s: %w", sym, err)
				}
				mu.Unlock()
				return
			}
			mu.Lock()
			warmed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		// не фатально: сканер ещё раз сходит за данными сам
		logger.Error("[BOOT] warmup partial: %v", firstErr)
		w.n.Sendf("⚠️ Warmup incomplete: %d/%d symbols, first error: %v", warmed, len(symbols), firstErr)
		return nil
	}

	logger.Info("[BOOT] warmup done: %d symbols", warmed)
	return nil
}
