package service

import (
	"context"

	"inside_value_bot/internal/models"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

// Monitor гоняет стейт-машину бракетов:
// EXECUTED -> STOP_LOSS_HIT (с разворотом) | TARGET_HIT.
// Разворот открывается только для исходного бракета, поэтому на
// сделку он случается максимум один раз.
type Monitor struct {
	broker Broker
	exec   *Executor
	n      notify.Notifier
	trades TradeRecorder
	locks  *ActiveSymbols
}

func NewMonitor(broker Broker, exec *Executor, n notify.Notifier, trades TradeRecorder, locks *ActiveSymbols) *Monitor {
	return &Monitor{broker: broker, exec: exec, n: n, trades: trades, locks: locks}
}

// CheckTrade обходит бракеты сделки. Возвращает true, когда все
// терминальны: символ при этом освобождён.
func (m *Monitor) CheckTrade(ctx context.Context, tr *models.Trade) bool {
	// range по индексу: флип дописывает бракеты в хвост
	for i := 0; i < len(tr.Brackets); i++ {
		br := tr.Brackets[i]
		if br.State != models.BracketExecuted {
			continue
		}

		if m.checkStopLoss(ctx, tr, br) {
			continue
		}
		m.checkTarget(ctx, br)
	}

	if tr.Closed() {
		logger.Info("[MONITOR] %s: all brackets closed, releasing symbol", tr.Symbol)
		m.locks.Release(tr.Symbol)
		return true
	}
	return false
}

func (m *Monitor) checkStopLoss(ctx context.Context, tr *models.Trade, br *models.Bracket) bool {
	if br.SLOrderID == "" {
		return false
	}

	status, err := m.broker.OrderStatus(ctx, br.SLOrderID)
	if err != nil {
		logger.Error("[MONITOR] %s: stop loss status check failed: %v", br.Symbol, err)
		return false
	}
	if status != models.OrderStatusTraded {
		return false
	}

	br.State = models.BracketStopLossHit
	br.ExitPrice = br.StopLoss
	br.ExitedAt = timeNow()

	logger.Info("[MONITOR] %s: stop loss hit at %.2f", br.Symbol, br.StopLoss)

	// тейк больше не нужен, снимаем best-effort
	if br.TargetOrderID != "" {
		if err := m.broker.CancelOrder(ctx, br.TargetOrderID); err != nil {
			logger.Error("[MONITOR] %s: cancel target %s failed: %v", br.Symbol, br.TargetOrderID, err)
		}
	}

	if err := m.trades.Record(ctx, models.TradeEvent{
		Symbol: br.Symbol, Strategy: br.Direction, Kind: "stop_loss",
		OrderID: br.SLOrderID, Price: br.StopLoss, Quantity: br.Quantity,
	}); err != nil {
		logger.Error("[MONITOR] %s: trade log write failed: %v", br.Symbol, err)
	}

	// Развёрнутая позиция второй раз не разворачивается:
	// максимум один флип на сделку.
	if br.IsFlip {
		m.n.Send(stopLossAlertMessage(br, nil))
		return true
	}

	// Разворот: противоположное направление, тот же объём.
	flip, err := m.exec.EnterFlip(ctx, br.Symbol, br.Exchange, br.Quantity, br.Direction.Opposite())
	if err != nil {
		logger.Error("[MONITOR] %s: flip entry failed: %v", br.Symbol, err)
		m.n.Send(stopLossAlertMessage(br, nil))
		m.n.Sendf("❗️ [%s] Position flip failed: %v", br.Symbol, err)
		return true
	}

	tr.Brackets = append(tr.Brackets, flip)
	m.n.Send(stopLossAlertMessage(br, flip))
	return true
}

func (m *Monitor) checkTarget(ctx context.Context, br *models.Bracket) {
	if br.TargetOrderID == "" {
		return
	}

	status, err := m.broker.OrderStatus(ctx, br.TargetOrderID)
	if err != nil {
		logger.Error("[MONITOR] %s: target status check failed: %v", br.Symbol, err)
		return
	}
	if status != models.OrderStatusTraded {
		return
	}

	br.State = models.BracketTargetHit
	br.ExitPrice = br.Target
	br.ExitedAt = timeNow()

	logger.Info("[MONITOR] %s: target hit at %.2f", br.Symbol, br.Target)

	if br.SLOrderID != "" {
		if err := m.broker.CancelOrder(ctx, br.SLOrderID); err != nil {
			logger.Error("[MONITOR] %s: cancel stop loss %s failed: %v", br.Symbol, br.SLOrderID, err)
		}
	}

	if err := m.trades.Record(ctx, models.TradeEvent{
		Symbol: br.Symbol, Strategy: br.Direction, Kind: "target",
		OrderID: br.TargetOrderID, Price: br.Target, Quantity: br.Quantity,
	}); err != nil {
		logger.Error("[MONITOR] %s: trade log write failed: %v", br.Symbol, err)
	}

	m.n.Send(targetHitMessage(br))
}
