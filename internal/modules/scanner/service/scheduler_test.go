package service

import (
	"context"
	"strings"
	"testing"
	"time"

	journal "inside_value_bot/internal/modules/journal/service"
	"inside_value_bot/internal/models"
)

type fakeMarketData struct {
	prev models.Bar
	curr models.Bar
	err  error
}

func (m *fakeMarketData) DailyBar(_ context.Context, _, _ string) (models.Bar, error) {
	return m.prev, m.err
}

func (m *fakeMarketData) RunningBar(_ context.Context, _, _ string) (models.Bar, error) {
	return m.curr, m.err
}

type fixedLots int

func (l fixedLots) LotSize(string) int { return int(l) }

type fakeHealth struct {
	ticks int
}

func (h *fakeHealth) SetReady(bool)        {}
func (h *fakeHealth) SetMarketOpen(bool)   {}
func (h *fakeHealth) TouchTick(time.Time)  { h.ticks++ }
func (h *fakeHealth) SetTierSizes(_, _ int) {}

func newTestScheduler(t *testing.T, b *fakeBroker, md MarketData) (*Scheduler, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	r := &fakeRecorder{}
	locks := NewActiveSymbols()
	exec := NewExecutor(b, n, r, ExecutorConfig{
		SLPercent: 1.0, TargetPercent: 1.0, TickSize: 0.10,
		FillAttempts: 2, FlipFillAttempts: 2,
	})
	mon := NewMonitor(b, exec, n, r, locks)
	hours, err := NewMarketHours("09:15", "15:30", "Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	jr := journal.NewJournal(dir, dir)

	s := NewScheduler(md, b, exec, mon, locks, jr, n, hours, fixedLots(1), &fakeHealth{}, SchedulerConfig{
		Watchlist:       []string{"RELIANCE"},
		DefaultQuantity: 1,
		BatchSize:       10,
	})
	return s, n
}

// вчера: bottom=100, median=102, top=104; сегодня строго внутри
func insideMarketData() *fakeMarketData {
	return &fakeMarketData{
		prev: models.Bar{High: 110, Low: 90, Close: 106, Complete: true},
		curr: models.Bar{High: 104, Low: 98, Close: 104},
	}
}

func countContaining(msgs []string, substr string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

func TestScanSymbolAlertsOnce(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0 // ниже порога 103.0
	s, n := newTestScheduler(t, b, insideMarketData())

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)

	if got := countContaining(n.msgs, "INSIDE VALUE PATTERN DETECTED"); got != 1 {
		t.Errorf("pattern alerts = %d, want exactly 1", got)
	}
	if s.hot[models.DirectionBullish]["RELIANCE"] == nil {
		t.Error("symbol must be in the bullish hot list")
	}
}

func TestFullScanSkipsBearishForBullishHot(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0
	s, _ := newTestScheduler(t, b, insideMarketData())

	s.fullScan(t.Context())

	if s.hot[models.DirectionBullish]["RELIANCE"] == nil {
		t.Fatal("symbol must be in the bullish hot list")
	}
	// бычий горячий список вытесняет медвежью проверку в этом проходе
	if s.hot[models.DirectionBearish]["RELIANCE"] != nil {
		t.Error("bearish hot list must not pick up a bullish hot symbol")
	}
}

func TestScanSymbolEntersOnThreshold(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 103.5 // выше порога 103.0
	b.execPrices["ord-1"] = 103.55
	s, n := newTestScheduler(t, b, insideMarketData())

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)

	if s.trades["RELIANCE"] == nil {
		t.Fatal("trade must be opened after the threshold cross")
	}
	if !s.locks.Active("RELIANCE") {
		t.Error("symbol must be locked after entry")
	}
	if !s.traded[models.DirectionBullish]["RELIANCE"] {
		t.Error("symbol must be marked traded")
	}
	if countContaining(n.msgs, "ENTRY SIGNAL TRIGGERED") != 1 {
		t.Error("expected one entry alert")
	}

	rec := s.signals[models.DirectionBullish]["RELIANCE"]
	if rec.ExecutionPrice != 103.55 {
		t.Errorf("execution price in journal record = %v, want 103.55", rec.ExecutionPrice)
	}

	// повторный скан не должен войти второй раз
	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if countContaining(n.msgs, "ENTRY SIGNAL TRIGGERED") != 1 {
		t.Error("repeat scan must not re-enter")
	}
}

func TestScanSymbolDropsWhenNotInside(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0
	md := insideMarketData()
	s, _ := newTestScheduler(t, b, md)

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if s.hot[models.DirectionBullish]["RELIANCE"] == nil {
		t.Fatal("symbol must be hot first")
	}

	// сегодняшний бар пробил вчерашнюю зону — паттерн распался
	md.curr = models.Bar{High: 108, Low: 96, Close: 108}
	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if s.hot[models.DirectionBullish]["RELIANCE"] != nil {
		t.Error("symbol must leave the hot list when the pattern breaks")
	}
}

func TestStatusText(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0
	s, _ := newTestScheduler(t, b, insideMarketData())

	if got := s.StatusText(); !strings.Contains(got, "No active trades") {
		t.Errorf("StatusText() = %q, want no-trades marker", got)
	}

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if got := s.StatusText(); !strings.Contains(got, "Hot bullish: 1") {
		t.Errorf("StatusText() = %q, want hot list size", got)
	}
}

func TestHotListEntersOnThreshold(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0 // ниже порога 103.0: символ лишь попадает в горячий список
	s, n := newTestScheduler(t, b, insideMarketData())

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if s.hot[models.DirectionBullish]["RELIANCE"] == nil {
		t.Fatal("symbol must be hot first")
	}

	// цена пересекла порог между полными сканами
	b.ltp = 103.5
	b.execPrices["ord-1"] = 103.55
	s.checkHotList(t.Context(), models.DirectionBullish)

	if s.trades["RELIANCE"] == nil {
		t.Fatal("hot tier must open the trade on a threshold cross")
	}
	if s.hot[models.DirectionBullish]["RELIANCE"] != nil {
		t.Error("entered symbol must leave the hot list")
	}
	if !s.locks.Active("RELIANCE") {
		t.Error("symbol must be locked after entry")
	}
	if countContaining(n.msgs, "ENTRY SIGNAL TRIGGERED") != 1 {
		t.Error("expected one entry alert")
	}

	// повторный проход горячего списка не входит второй раз
	s.checkHotList(t.Context(), models.DirectionBullish)
	if countContaining(n.msgs, "ENTRY SIGNAL TRIGGERED") != 1 {
		t.Error("repeat hot pass must not re-enter")
	}
}

func TestHotListDemotesWhenPatternBreaks(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 102.0
	md := insideMarketData()
	s, _ := newTestScheduler(t, b, md)

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if s.hot[models.DirectionBullish]["RELIANCE"] == nil {
		t.Fatal("symbol must be hot first")
	}

	// сегодняшний бар пробил зону: горячий ярус сам снимает символ
	md.curr = models.Bar{High: 108, Low: 96, Close: 108}
	s.checkHotList(t.Context(), models.DirectionBullish)

	if s.hot[models.DirectionBullish]["RELIANCE"] != nil {
		t.Error("hot tier must demote the symbol when the pattern breaks")
	}
	if s.trades["RELIANCE"] != nil {
		t.Error("no trade must be opened below the threshold")
	}
}

func TestStatusTextConcurrentWithMonitor(t *testing.T) {
	b := newFakeBroker()
	b.ltp = 103.5
	b.execPrices["ord-1"] = 103.55
	s, _ := newTestScheduler(t, b, insideMarketData())

	s.scanSymbol(t.Context(), "RELIANCE", models.DirectionBullish)
	if got := s.StatusText(); !strings.Contains(got, "RELIANCE") {
		t.Fatalf("StatusText() = %q, want the open trade line", got)
	}

	// стоп входа исполнен, ноги разворота остаются открытыми
	b.statuses["ord-2"] = []models.OrderStatus{models.OrderStatusTraded}
	b.execPrices["ord-4"] = 102.9
	b.statuses["ord-5"] = []models.OrderStatus{models.OrderStatusPending}
	b.statuses["ord-6"] = []models.OrderStatus{models.OrderStatusPending}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = s.StatusText()
		}
	}()
	s.checkActiveTrades(t.Context())
	<-done

	got := s.StatusText()
	if !strings.Contains(got, "STOP_LOSS_HIT") {
		t.Errorf("StatusText() = %q, want the stopped bracket", got)
	}
	if !strings.Contains(got, "BEARISH") {
		t.Errorf("StatusText() = %q, want the flip bracket", got)
	}
}
