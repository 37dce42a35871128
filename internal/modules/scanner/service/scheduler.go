package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"inside_value_bot/internal/helper"
	journal "inside_value_bot/internal/modules/journal/service"
	"inside_value_bot/internal/models"
	"inside_value_bot/internal/notify"
	"inside_value_bot/pkg/logger"
)

// LotSizer — размер лота инструмента из справочника.
type LotSizer interface {
	LotSize(symbol string) int
}

// Health — что сканер сообщает health-эндпоинту.
type Health interface {
	SetReady(v bool)
	SetMarketOpen(v bool)
	TouchTick(t time.Time)
	SetTierSizes(hot, active int)
}

type SchedulerConfig struct {
	Watchlist []string

	ScanInterval         time.Duration
	HotListInterval      time.Duration
	ActiveTradesInterval time.Duration

	BatchSize   int
	SymbolDelay time.Duration
	BatchDelay  time.Duration

	DefaultQuantity int
}

// Scheduler — один кооперативный цикл с тремя ярусами опроса:
// активные сделки чаще горячего списка, горячий список чаще полного скана.
type Scheduler struct {
	md     MarketData
	broker Broker
	exec   *Executor
	mon    *Monitor
	locks  *ActiveSymbols
	jr     *journal.Journal
	n      notify.Notifier
	hours  MarketHours
	lots   LotSizer
	health Health

	cfg SchedulerConfig

	mu               sync.Mutex
	hot              map[models.Direction]map[string]*models.SignalRecord
	patternAlerted   map[models.Direction]map[string]bool
	thresholdAlerted map[models.Direction]map[string]bool
	traded           map[models.Direction]map[string]bool
	signals          map[models.Direction]map[string]models.SignalRecord
	trades           map[string]*models.Trade
	// копии бракетов для /status: монитор мутирует сами *Bracket вне
	// s.mu, поэтому телеграм-горутина читает только этот снимок
	tradeView map[string][]models.Bracket

	lastFullScan time.Time
	lastHot      time.Time
	lastActive   time.Time
}

func NewScheduler(
	md MarketData,
	broker Broker,
	exec *Executor,
	mon *Monitor,
	locks *ActiveSymbols,
	jr *journal.Journal,
	n notify.Notifier,
	hours MarketHours,
	lots LotSizer,
	health Health,
	cfg SchedulerConfig,
) *Scheduler {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.DefaultQuantity <= 0 {
		cfg.DefaultQuantity = 1
	}

	s := &Scheduler{
		md: md, broker: broker, exec: exec, mon: mon,
		locks: locks, jr: jr, n: n, hours: hours, lots: lots, health: health,
		cfg: cfg,

		hot:              make(map[models.Direction]map[string]*models.SignalRecord),
		patternAlerted:   make(map[models.Direction]map[string]bool),
		thresholdAlerted: make(map[models.Direction]map[string]bool),
		traded:           make(map[models.Direction]map[string]bool),
		signals:          make(map[models.Direction]map[string]models.SignalRecord),
		trades:           make(map[string]*models.Trade),
		tradeView:        make(map[string][]models.Bracket),
	}
	for _, dir := range []models.Direction{models.DirectionBullish, models.DirectionBearish} {
		s.hot[dir] = make(map[string]*models.SignalRecord)
		s.patternAlerted[dir] = make(map[string]bool)
		s.thresholdAlerted[dir] = make(map[string]bool)
		s.traded[dir] = make(map[string]bool)
		s.signals[dir] = make(map[string]models.SignalRecord)
	}
	return s
}

// Run блокируется до конца торгового дня или отмены ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.waitForOpen(ctx) {
		return ctx.Err()
	}

	s.health.SetReady(true)
	s.health.SetMarketOpen(true)

	s.n.Send(startupMessage(len(s.cfg.Watchlist), s.cfg.ScanInterval))
	logger.Info("[SCAN] scanner started, watchlist=%d", len(s.cfg.Watchlist))

	// полный скан сразу на первом тике
	s.lastFullScan = timeNow().Add(-s.cfg.ScanInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := timeNow()
		if !s.hours.OpenAt(now) {
			break
		}

		s.tick(ctx, now)
		s.health.TouchTick(now)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	s.health.SetMarketOpen(false)
	s.finishDay(ctx)
	logger.Info("[SCAN] market closed, combined scanning stopped")
	return nil
}

// waitForOpen ждёт открытия, если запуск был до сессии в торговый день.
func (s *Scheduler) waitForOpen(ctx context.Context) bool {
	for {
		now := timeNow()
		if s.hours.OpenAt(now) {
			return true
		}

		next := s.hours.NextOpen(now)
		if next.YearDay() != now.In(next.Location()).YearDay() || next.Year() != now.Year() {
			logger.Info("[SCAN] market closed for today, exiting")
			return false
		}

		wait := time.Until(next)
		logger.Info("[SCAN] market opens in %s", wait.Round(time.Second))
		if wait > time.Minute {
			wait = time.Minute
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
}

// tick — один оборот цикла: активные сделки, горячие списки, полный скан.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if now.Sub(s.lastActive) >= s.cfg.ActiveTradesInterval {
		s.checkActiveTrades(ctx)
		s.lastActive = now
	}

	if now.Sub(s.lastHot) >= s.cfg.HotListInterval {
		s.checkHotList(ctx, models.DirectionBullish)
		s.checkHotList(ctx, models.DirectionBearish)
		s.lastHot = now
	}

	if now.Sub(s.lastFullScan) >= s.cfg.ScanInterval {
		s.fullScan(ctx)
		s.lastFullScan = now
	}

	s.mu.Lock()
	hotSize := len(s.hot[models.DirectionBullish]) + len(s.hot[models.DirectionBearish])
	active := len(s.trades)
	s.mu.Unlock()
	s.health.SetTierSizes(hotSize, active)
}

func (s *Scheduler) checkActiveTrades(ctx context.Context) {
	s.mu.Lock()
	trades := make([]*models.Trade, 0, len(s.trades))
	for _, tr := range s.trades {
		trades = append(trades, tr)
	}
	s.mu.Unlock()

	for _, tr := range trades {
		if s.mon.CheckTrade(ctx, tr) {
			s.mu.Lock()
			delete(s.trades, tr.Symbol)
			s.mu.Unlock()
		}
	}
	s.publishTradeView()
}

// publishTradeView снимает копии бракетов под s.mu. Вызывается только из
// горутины планировщика, в моменты, когда монитор их не трогает.
func (s *Scheduler) publishTradeView() {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := make(map[string][]models.Bracket, len(s.trades))
	for sym, tr := range s.trades {
		brs := make([]models.Bracket, 0, len(tr.Brackets))
		for _, br := range tr.Brackets {
			brs = append(brs, *br)
		}
		view[sym] = brs
	}
	s.tradeView = view
}

func (s *Scheduler) checkHotList(ctx context.Context, dir models.Direction) {
	s.mu.Lock()
	symbols := make([]string, 0, len(s.hot[dir]))
	for sym := range s.hot[dir] {
		symbols = append(symbols, sym)
	}
	s.mu.Unlock()

	for _, symbol := range symbols {
		if err := s.checkHotSymbol(ctx, dir, symbol); err != nil {
			logger.Error("[SCAN] hot list %s %s: %v", dir, symbol, err)
		}
	}
}

func (s *Scheduler) checkHotSymbol(ctx context.Context, dir models.Direction, symbol string) error {
	s.mu.Lock()
	rec, ok := s.hot[dir][symbol]
	skip := !ok || s.traded[dir][symbol]
	s.mu.Unlock()
	if skip || s.locks.Active(symbol) {
		return nil
	}

	ltp, err := s.broker.LTP(ctx, symbol, rec.Exchange)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	s.mu.Lock()
	rec.CurrentPrice = ltp
	rec.LastUpdated = timeNow().Format("2006-01-02 15:04:05")
	rec.AboveThreshold = dir == models.DirectionBullish && ltp >= rec.EntryThreshold
	rec.BelowThreshold = dir == models.DirectionBearish && ltp <= rec.EntryThreshold
	s.signals[dir][symbol] = *rec
	alreadyAlerted := s.thresholdAlerted[dir][symbol]
	s.mu.Unlock()

	if Crossed(dir, ltp, rec.EntryThreshold) {
		if !alreadyAlerted {
			s.tryEnter(ctx, dir, *rec)
		}
		return nil
	}

	// порог не пересечён — перепроверяем, жив ли паттерн
	fresh, inside, err := s.evaluate(ctx, symbol, rec.Exchange, dir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if inside {
		s.hot[dir][symbol] = &fresh
		s.signals[dir][symbol] = fresh
	} else {
		logger.Info("[SCAN] %s inside value no longer valid for %s", dir, symbol)
		delete(s.hot[dir], symbol)
	}
	s.mu.Unlock()
	return nil
}

// fullScan обходит watchlist батчами. Бычья проверка первая; символ из
// бычьего горячего списка медвежью проверку в этом проходе не проходит.
func (s *Scheduler) fullScan(ctx context.Context) {
	logger.Info("[SCAN] starting full combined scan, %d symbols", len(s.cfg.Watchlist))

	for i := 0; i < len(s.cfg.Watchlist); i += s.cfg.BatchSize {
		end := i + s.cfg.BatchSize
		if end > len(s.cfg.Watchlist) {
			end = len(s.cfg.Watchlist)
		}
		batch := s.cfg.Watchlist[i:end]
		logger.Info("[SCAN] processing batch %d/%d (%d stocks)",
			i/s.cfg.BatchSize+1, (len(s.cfg.Watchlist)-1)/s.cfg.BatchSize+1, len(batch))

		for _, symbol := range batch {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if s.locks.Active(symbol) {
				continue
			}

			bullishHot := s.scanSymbol(ctx, symbol, models.DirectionBullish)

			s.mu.Lock()
			inBullishHot := s.hot[models.DirectionBullish][symbol] != nil
			s.mu.Unlock()

			if !bullishHot && !inBullishHot {
				s.scanSymbol(ctx, symbol, models.DirectionBearish)
			}

			if !sleepCtx(ctx, s.cfg.SymbolDelay) {
				return
			}
		}

		if !sleepCtx(ctx, s.cfg.BatchDelay) {
			return
		}
	}
}

// scanSymbol возвращает true, если символ в горячем списке направления.
func (s *Scheduler) scanSymbol(ctx context.Context, symbol string, dir models.Direction) bool {
	s.mu.Lock()
	skip := s.traded[dir][symbol]
	s.mu.Unlock()
	if skip {
		return false
	}

	rec, inside, err := s.evaluate(ctx, symbol, helper.ExchangeFor(symbol), dir)
	if err != nil {
		// изоляция по символу: лог и дальше
		logger.Error("[SCAN] %s scan for %s failed: %v", dir, symbol, err)
		return false
	}

	if !inside {
		s.mu.Lock()
		delete(s.hot[dir], symbol)
		s.mu.Unlock()
		return false
	}

	s.mu.Lock()
	_, wasHot := s.hot[dir][symbol]
	s.hot[dir][symbol] = &rec
	s.signals[dir][symbol] = rec
	firstAlert := !s.patternAlerted[dir][symbol]
	if firstAlert {
		s.patternAlerted[dir][symbol] = true
	}
	alreadyTriggered := s.thresholdAlerted[dir][symbol]
	s.mu.Unlock()

	if !wasHot {
		logger.Info("[SCAN] added %s to %s hot watchlist", symbol, dir)
	}
	if firstAlert {
		s.n.Send(patternAlertMessage(rec))
		logger.Info("[SIGNAL] %s INSIDE VALUE | %s | Median: %.2f | Threshold: %.2f",
			strings.ToUpper(string(dir)), symbol, rec.YesterdayMedian, rec.EntryThreshold)
		if err := s.jr.Upsert(rec); err != nil {
			logger.Error("[SIGNAL] journal write for %s failed: %v", symbol, err)
		}
	}

	if Crossed(dir, rec.CurrentPrice, rec.EntryThreshold) && !alreadyTriggered {
		s.tryEnter(ctx, dir, rec)
	}
	return true
}

// evaluate — вчерашний бар + растущий сегодняшний + котировка.
func (s *Scheduler) evaluate(ctx context.Context, symbol, exchange string, dir models.Direction) (models.SignalRecord, bool, error) {
	prev, err := s.md.DailyBar(ctx, symbol, exchange)
	if err != nil {
		return models.SignalRecord{}, false, err
	}
	curr, err := s.md.RunningBar(ctx, symbol, exchange)
	if err != nil {
		return models.SignalRecord{}, false, err
	}

	check := Classify(prev, curr, dir)
	threshold := EntryThreshold(dir, prev, s.exec.cfg.TickSize)

	ltp, err := s.broker.LTP(ctx, symbol, exchange)
	if err != nil {
		return models.SignalRecord{}, false, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	rec := models.NewSignalRecord(symbol, exchange, dir, prev, curr, check, threshold, ltp)
	rec.LastUpdated = timeNow().Format("2006-01-02 15:04:05")

	return rec, check.Inside(), nil
}

// tryEnter — вход по пересечению порога. Символ сначала забирается
// межстратегийным замком, при неудаче входа возвращается обратно.
func (s *Scheduler) tryEnter(ctx context.Context, dir models.Direction, rec models.SignalRecord) {
	symbol := rec.Symbol

	if !s.locks.Claim(symbol, dir) {
		return
	}

	qty := s.cfg.DefaultQuantity
	if lot := s.lots.LotSize(symbol); lot > qty {
		qty = lot
	}

	br, err := s.exec.Enter(ctx, symbol, rec.Exchange, qty, dir)
	if err != nil {
		s.locks.Release(symbol)
		logger.Error("[TRADE] entry for %s %s failed: %v", symbol, dir, err)
		s.n.Sendf("❗️ [%s] %s entry failed: %v", symbol, strings.ToUpper(string(dir)), err)
		return
	}

	rec.TradesExecuted = true
	rec.ExecutionPrice = br.EntryPrice
	rec.Quantity = br.Quantity
	rec.SLPrice = br.StopLoss
	rec.TargetPrice = br.Target
	rec.LastUpdated = timeNow().Format("2006-01-02 15:04:05")

	s.mu.Lock()
	s.traded[dir][symbol] = true
	s.thresholdAlerted[dir][symbol] = true
	delete(s.hot[dir], symbol)
	s.signals[dir][symbol] = rec
	s.trades[symbol] = &models.Trade{
		Symbol:   symbol,
		Exchange: rec.Exchange,
		Strategy: dir,
		Brackets: []*models.Bracket{br},
	}
	s.mu.Unlock()
	s.publishTradeView()

	logger.Info("[SIGNAL] %s THRESHOLD CROSSED | %s | Current: %.2f | Threshold: %.2f",
		strings.ToUpper(string(dir)), symbol, rec.CurrentPrice, rec.EntryThreshold)

	s.n.Send(entryAlertMessage(rec))
	if err := s.jr.Upsert(rec); err != nil {
		logger.Error("[SIGNAL] journal write for %s failed: %v", symbol, err)
	}
}

// finishDay — отчёт и итоговый алерт, если за день что-то было.
func (s *Scheduler) finishDay(ctx context.Context) {
	s.mu.Lock()
	bullish := recordsOf(s.signals[models.DirectionBullish])
	bearish := recordsOf(s.signals[models.DirectionBearish])
	summary := daySummary{
		watchlist: len(s.cfg.Watchlist),
		patterns: map[models.Direction]int{
			models.DirectionBullish: len(s.patternAlerted[models.DirectionBullish]),
			models.DirectionBearish: len(s.patternAlerted[models.DirectionBearish]),
		},
		triggered: map[models.Direction]int{
			models.DirectionBullish: len(s.thresholdAlerted[models.DirectionBullish]),
			models.DirectionBearish: len(s.thresholdAlerted[models.DirectionBearish]),
		},
		traded: map[models.Direction]int{
			models.DirectionBullish: len(s.traded[models.DirectionBullish]),
			models.DirectionBearish: len(s.traded[models.DirectionBearish]),
		},
	}
	s.mu.Unlock()

	if len(bullish) == 0 && len(bearish) == 0 {
		return
	}

	path, err := s.jr.WriteDailyReport(bullish, bearish)
	if err != nil {
		logger.Error("[REPORT] daily report failed: %v", err)
	} else {
		summary.reportPath = path
		logger.Info("[REPORT] daily report saved to %s", path)
	}

	s.n.Send(endOfDayMessage(summary))
}

func recordsOf(m map[string]models.SignalRecord) []models.SignalRecord {
	out := make([]models.SignalRecord, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

// StatusText — ответ на /status в Telegram.
func (s *Scheduler) StatusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("📊 Inside Value Scanner\n")
	fmt.Fprintf(&b, "Watchlist: %d\n", len(s.cfg.Watchlist))
	fmt.Fprintf(&b, "Hot bullish: %d, bearish: %d\n",
		len(s.hot[models.DirectionBullish]), len(s.hot[models.DirectionBearish]))

	if len(s.tradeView) == 0 {
		b.WriteString("📭 No active trades")
		return b.String()
	}

	b.WriteString("Active trades:\n")
	for _, brs := range s.tradeView {
		for _, br := range brs {
			fmt.Fprintf(&b, "- %s [%s] %d @ ₹%.2f SL=₹%.2f TG=₹%.2f (%s)\n",
				br.Symbol, strings.ToUpper(string(br.Direction)), br.Quantity,
				br.EntryPrice, br.StopLoss, br.Target, br.State)
		}
	}
	return b.String()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
