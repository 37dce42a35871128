package service

import (
	"context"
	"fmt"
	"time"

	"inside_value_bot/internal/helper"
	"inside_value_bot/internal/models"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

// ExecutorConfig — проценты ног и бюджет ожидания исполнения входа.
type ExecutorConfig struct {
	SLPercent     float64 // 1.0 => 1%
	TargetPercent float64
	TickSize      float64

	FillAttempts int
	FillDelay    time.Duration

	FlipFillAttempts int
	FlipFillDelay    time.Duration
}

// Executor открывает рыночный вход и навешивает защитные ноги.
// Ноги fail-forward: их неудача не откатывает вход.
type Executor struct {
	broker Broker
	n      notify.Notifier
	trades TradeRecorder

	cfg ExecutorConfig
}

func NewExecutor(broker Broker, n notify.Notifier, trades TradeRecorder, cfg ExecutorConfig) *Executor {
	if cfg.TickSize <= 0 {
		cfg.TickSize = helper.DefaultTickSize
	}
	if cfg.FillAttempts <= 0 {
		cfg.FillAttempts = 5
	}
	if cfg.FlipFillAttempts <= 0 {
		cfg.FlipFillAttempts = 10
	}
	return &Executor{broker: broker, n: n, trades: trades, cfg: cfg}
}

// Enter — обычный вход по сигналу.
func (e *Executor) Enter(ctx context.Context, symbol, exchange string, qty int, dir models.Direction) (*models.Bracket, error) {
	return e.enter(ctx, symbol, exchange, qty, dir, false, e.cfg.FillAttempts, e.cfg.FillDelay)
}

// EnterFlip — разворот после стопа: тот же объём, расширенное ожидание,
// маржа заново не считается.
func (e *Executor) EnterFlip(ctx context.Context, symbol, exchange string, qty int, dir models.Direction) (*models.Bracket, error) {
	return e.enter(ctx, symbol, exchange, qty, dir, true, e.cfg.FlipFillAttempts, e.cfg.FlipFillDelay)
}

func (e *Executor) enter(
	ctx context.Context,
	symbol, exchange string,
	qty int,
	dir models.Direction,
	isFlip bool,
	attempts int,
	delay time.Duration,
) (*models.Bracket, error) {

	side := dir.Side()

	// 1. Рыночный вход
	entryID, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
		Symbol:    symbol,
		Exchange:  exchange,
		Side:      side,
		OrderType: models.OrderTypeMarket,
		Quantity:  qty,
	})
	if err != nil {
		return nil, fmt.Errorf("entry %s %s: %w", symbol, side, err)
	}

	logger.Info("[TRADE] %s %s order placed, id=%s", symbol, side, entryID)

	br := &models.Bracket{
		Symbol:       symbol,
		Exchange:     exchange,
		Direction:    dir,
		Quantity:     qty,
		EntryOrderID: entryID,
		State:        models.BracketPending,
		IsFlip:       isFlip,
		EnteredAt:    time.Now(),
	}

	// 2. Ждём исполнение
	execPrice, err := e.awaitFill(ctx, symbol, exchange, entryID, attempts, delay)
	if err != nil {
		return nil, err
	}
	br.EntryPrice = execPrice
	br.State = models.BracketExecuted

	kind := "entry"
	if isFlip {
		kind = "flip"
	}
	if err := e.trades.Record(ctx, models.TradeEvent{
		Symbol: symbol, Strategy: dir, Kind: kind,
		OrderID: entryID, Price: execPrice, Quantity: qty,
	}); err != nil {
		logger.Error("[TRADE] %s: trade log write failed: %v", symbol, err)
	}

	// 3. Ноги: стоп ниже/выше на SLPercent, тейк на TargetPercent
	e.attachLegs(ctx, br)

	return br, nil
}

// awaitFill поллит статус входа. Reject/cancel — ошибка без позиции,
// таймаут — ошибка с ид ордера, цена — каскад фолбэков.
func (e *Executor) awaitFill(ctx context.Context, symbol, exchange, orderID string, attempts int, delay time.Duration) (float64, error) {
	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(delay):
		}

		status, err := e.broker.OrderStatus(ctx, orderID)
		if err != nil {
			logger.Error("[TRADE] %s: order %s status check failed: %v", symbol, orderID, err)
			continue
		}

		logger.Info("[TRADE] %s: order %s status %s", symbol, orderID, status)

		switch status {
		case models.OrderStatusTraded:
			return e.resolveExecPrice(ctx, symbol, exchange, orderID)
		case models.OrderStatusRejected:
			return 0, fmt.Errorf("order %s: %w", orderID, ErrOrderRejected)
		case models.OrderStatusCancelled:
			return 0, fmt.Errorf("order %s: %w", orderID, ErrOrderCancelled)
		}
	}

	return 0, fmt.Errorf("order %s: %w", orderID, ErrFillTimeout)
}

// resolveExecPrice: сделки ордера -> средняя из деталей -> живая котировка.
func (e *Executor) resolveExecPrice(ctx context.Context, symbol, exchange, orderID string) (float64, error) {
	if px, err := e.broker.ExecutedPrice(ctx, orderID); err == nil && px > 0 {
		return px, nil
	} else if err != nil {
		logger.Error("[TRADE] %s: executed price via API failed: %v", symbol, err)
	}

	if px, err := e.broker.OrderAveragePrice(ctx, orderID); err == nil && px > 0 {
		return px, nil
	}

	px, err := e.broker.LTP(ctx, symbol, exchange)
	if err != nil || px <= 0 {
		return 0, fmt.Errorf("exec price for %s order %s: %w", symbol, orderID, ErrQuoteUnavailable)
	}
	logger.Info("[TRADE] %s: using LTP as fallback exec price: %.2f", symbol, px)
	return px, nil
}

func (e *Executor) attachLegs(ctx context.Context, br *models.Bracket) {
	slPct := e.cfg.SLPercent / 100.0
	tgPct := e.cfg.TargetPercent / 100.0

	if br.Direction == models.DirectionBullish {
		br.StopLoss = helper.RoundToTick(br.EntryPrice*(1-slPct), e.cfg.TickSize)
		br.Target = helper.RoundToTick(br.EntryPrice*(1+tgPct), e.cfg.TickSize)
	} else {
		br.StopLoss = helper.RoundToTick(br.EntryPrice*(1+slPct), e.cfg.TickSize)
		br.Target = helper.RoundToTick(br.EntryPrice*(1-tgPct), e.cfg.TickSize)
	}

	exitSide := br.Direction.Side().Opposite()

	slID, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
		Symbol:       br.Symbol,
		Exchange:     br.Exchange,
		Side:         exitSide,
		OrderType:    models.OrderTypeStopMarket,
		Quantity:     br.Quantity,
		TriggerPrice: br.StopLoss,
	})
	if err != nil {
		logger.Error("[TRADE] %s: stop loss leg failed: %v", br.Symbol, err)
		e.n.Sendf("⚠️ [%s] Stop loss order NOT placed: %v", br.Symbol, err)
	} else {
		br.SLOrderID = slID
		logger.Info("[TRADE] %s: stop loss at %.2f, id=%s", br.Symbol, br.StopLoss, slID)
	}

	tgID, err := e.broker.PlaceOrder(ctx, models.OrderRequest{
		Symbol:    br.Symbol,
		Exchange:  br.Exchange,
		Side:      exitSide,
		OrderType: models.OrderTypeLimit,
		Quantity:  br.Quantity,
		Price:     br.Target,
	})
	if err != nil {
		logger.Error("[TRADE] %s: target leg failed: %v", br.Symbol, err)
		e.n.Sendf("⚠️ [%s] Target order NOT placed: %v", br.Symbol, err)
	} else {
		br.TargetOrderID = tgID
		logger.Info("[TRADE] %s: target at %.2f, id=%s", br.Symbol, br.Target, tgID)
	}
}
