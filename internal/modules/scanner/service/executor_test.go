package service

import (
	"errors"
	"math"
	"strings"
	"testing"

	"inside_value_bot/internal/models"
)

func newTestExecutor(b *fakeBroker) (*Executor, *fakeNotifier, *fakeRecorder) {
	n := &fakeNotifier{}
	r := &fakeRecorder{}
	exec := NewExecutor(b, n, r, ExecutorConfig{
		SLPercent:     1.0,
		TargetPercent: 1.0,
		TickSize:      0.10,
		FillAttempts:  3,
		FillDelay:     0,
	})
	return exec, n, r
}

func TestExecutorEnterBullish(t *testing.T) {
	b := newFakeBroker()
	b.execPrices["ord-1"] = 250.37
	exec, _, r := newTestExecutor(b)

	br, err := exec.Enter(t.Context(), "RELIANCE", "NSE", 10, models.DirectionBullish)
	if err != nil {
		t.Fatalf("Enter() error: %v", err)
	}

	if br.State != models.BracketExecuted {
		t.Errorf("state = %s, want EXECUTED", br.State)
	}
	if br.EntryPrice != 250.37 {
		t.Errorf("entry price = %v, want 250.37", br.EntryPrice)
	}
	if math.Abs(br.StopLoss-247.9) > 1e-9 {
		t.Errorf("stop loss = %v, want 247.90", br.StopLoss)
	}
	if math.Abs(br.Target-252.9) > 1e-9 {
		t.Errorf("target = %v, want 252.90", br.Target)
	}

	if len(b.placed) != 3 {
		t.Fatalf("placed %d orders, want 3", len(b.placed))
	}

	entry, sl, tg := b.placed[0], b.placed[1], b.placed[2]
	if entry.OrderType != models.OrderTypeMarket || entry.Side != models.SideBuy {
		t.Errorf("entry order = %s %s, want MARKET BUY", entry.OrderType, entry.Side)
	}
	if sl.OrderType != models.OrderTypeStopMarket || sl.Side != models.SideSell {
		t.Errorf("sl order = %s %s, want STOPMARKET SELL", sl.OrderType, sl.Side)
	}
	if math.Abs(sl.TriggerPrice-247.9) > 1e-9 {
		t.Errorf("sl trigger = %v, want 247.90", sl.TriggerPrice)
	}
	if tg.OrderType != models.OrderTypeLimit || tg.Side != models.SideSell {
		t.Errorf("target order = %s %s, want LIMIT SELL", tg.OrderType, tg.Side)
	}

	if len(r.events) != 1 || r.events[0].Kind != "entry" {
		t.Errorf("recorded events = %+v, want one entry", r.events)
	}
}

func TestExecutorBearishLegLevels(t *testing.T) {
	b := newFakeBroker()
	b.execPrices["ord-1"] = 100.0
	exec, _, _ := newTestExecutor(b)

	br, err := exec.Enter(t.Context(), "INFY", "NSE", 5, models.DirectionBearish)
	if err != nil {
		t.Fatalf("Enter() error: %v", err)
	}

	// шорт: стоп выше входа, тейк ниже
	if math.Abs(br.StopLoss-101.0) > 1e-9 {
		t.Errorf("stop loss = %v, want 101.00", br.StopLoss)
	}
	if math.Abs(br.Target-99.0) > 1e-9 {
		t.Errorf("target = %v, want 99.00", br.Target)
	}
	if b.placed[1].Side != models.SideBuy || b.placed[2].Side != models.SideBuy {
		t.Error("short exit legs must be BUY")
	}
}

func TestExecutorEntryRejected(t *testing.T) {
	b := newFakeBroker()
	b.statuses["ord-1"] = []models.OrderStatus{models.OrderStatusRejected}
	exec, _, _ := newTestExecutor(b)

	_, err := exec.Enter(t.Context(), "TCS", "NSE", 1, models.DirectionBullish)
	if !errors.Is(err, ErrOrderRejected) {
		t.Fatalf("Enter() error = %v, want ErrOrderRejected", err)
	}
	if len(b.placed) != 1 {
		t.Errorf("placed %d orders, want 1 (no legs after reject)", len(b.placed))
	}
}

func TestExecutorFillTimeout(t *testing.T) {
	b := newFakeBroker()
	b.statuses["ord-1"] = []models.OrderStatus{models.OrderStatusPending}
	exec, _, _ := newTestExecutor(b)

	_, err := exec.Enter(t.Context(), "TCS", "NSE", 1, models.DirectionBullish)
	if !errors.Is(err, ErrFillTimeout) {
		t.Fatalf("Enter() error = %v, want ErrFillTimeout", err)
	}
	if !strings.Contains(err.Error(), "ord-1") {
		t.Errorf("timeout error %q must name the order id", err)
	}
}

func TestExecutorExecPriceFallbackToLTP(t *testing.T) {
	b := newFakeBroker()
	b.execErr = errors.New("trades endpoint down")
	b.avgErr = errors.New("order detail down")
	b.ltp = 321.5
	exec, _, _ := newTestExecutor(b)

	br, err := exec.Enter(t.Context(), "SBIN", "NSE", 1, models.DirectionBullish)
	if err != nil {
		t.Fatalf("Enter() error: %v", err)
	}
	if br.EntryPrice != 321.5 {
		t.Errorf("entry price = %v, want LTP fallback 321.5", br.EntryPrice)
	}
}

func TestExecutorLegFailureKeepsPosition(t *testing.T) {
	b := newFakeBroker()
	b.execPrices["ord-1"] = 200.0
	b.placeErrFor[models.OrderTypeStopMarket] = errors.New("rms block")
	exec, n, _ := newTestExecutor(b)

	br, err := exec.Enter(t.Context(), "ITC", "NSE", 1, models.DirectionBullish)
	if err != nil {
		t.Fatalf("Enter() error: %v, leg failure must not fail the entry", err)
	}
	if br.SLOrderID != "" {
		t.Errorf("sl order id = %q, want empty after leg failure", br.SLOrderID)
	}
	if br.TargetOrderID == "" {
		t.Error("target leg must still be placed")
	}

	var warned bool
	for _, msg := range n.msgs {
		if strings.Contains(msg, "Stop loss order NOT placed") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a stop loss warning alert")
	}
}

func TestExecutorFlipMarksBracket(t *testing.T) {
	b := newFakeBroker()
	exec, _, r := newTestExecutor(b)

	br, err := exec.EnterFlip(t.Context(), "LT", "NSE", 2, models.DirectionBearish)
	if err != nil {
		t.Fatalf("EnterFlip() error: %v", err)
	}
	if !br.IsFlip {
		t.Error("IsFlip = false, want true")
	}
	if len(r.events) != 1 || r.events[0].Kind != "flip" {
		t.Errorf("recorded events = %+v, want one flip", r.events)
	}
}
