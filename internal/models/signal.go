package models

// Direction — тип стратегии, он же Strategy_Type в журнале сигналов.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
)

func (d Direction) Opposite() Direction {
	if d == DirectionBullish {
		return DirectionBearish
	}
	return DirectionBullish
}

// Side входа для направления.
func (d Direction) Side() Side {
	if d == DirectionBullish {
		return SideBuy
	}
	return SideSell
}

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// PatternCheck — результат проверки inside-value по двум наборам уравнений.
type PatternCheck struct {
	Set1 bool
	Set2 bool
}

func (p PatternCheck) Inside() bool { return p.Set1 || p.Set2 }

// SignalRecord — запись журнала сигналов. Имена полей в JSON исторические,
// файлы читаются внешними отчётными скриптами.
type SignalRecord struct {
	Symbol       string `json:"Symbol"`
	Exchange     string `json:"Exchange"`
	StrategyType string `json:"Strategy_Type"`

	InsideCombined string `json:"Inside Value (Combined)"`
	InsideSet1     string `json:"Inside Value (Set 1)"`
	InsideSet2     string `json:"Inside Value (Set 2)"`

	YesterdayHigh   float64 `json:"Yesterday_High"`
	YesterdayLow    float64 `json:"Yesterday_Low"`
	YesterdayClose  float64 `json:"Yesterday_Close"`
	YesterdayMedian float64 `json:"Yesterday_Median"`

	TodayOpen    float64 `json:"Today_Open"`
	TodayHigh    float64 `json:"Today_High"`
	TodayLow     float64 `json:"Today_Low"`
	TodayCurrent float64 `json:"Today_Current"`

	EntryThreshold float64 `json:"Entry_Threshold"`
	CurrentPrice   float64 `json:"Current_Price"`
	AboveThreshold bool    `json:"Above_Threshold"`
	BelowThreshold bool    `json:"Below_Threshold"`
	LastUpdated    string  `json:"Last_Updated"`

	TradesExecuted bool    `json:"Trades_Executed"`
	ExecutionPrice float64 `json:"execution_price,omitempty"`
	Quantity       int     `json:"quantity,omitempty"`
	SLPrice        float64 `json:"sl_price,omitempty"`
	TargetPrice    float64 `json:"target_price,omitempty"`
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// NewSignalRecord собирает запись из пары баров и результата классификации.
func NewSignalRecord(symbol, exchange string, dir Direction, prev, curr Bar, check PatternCheck, threshold, ltp float64) SignalRecord {
	return SignalRecord{
		Symbol:       symbol,
		Exchange:     exchange,
		StrategyType: string(dir),

		InsideCombined: yesNo(check.Inside()),
		InsideSet1:     yesNo(check.Set1),
		InsideSet2:     yesNo(check.Set2),

		YesterdayHigh:   prev.High,
		YesterdayLow:    prev.Low,
		YesterdayClose:  prev.Close,
		YesterdayMedian: prev.Value().Median,

		TodayOpen:    curr.Open,
		TodayHigh:    curr.High,
		TodayLow:     curr.Low,
		TodayCurrent: curr.Close,

		EntryThreshold: threshold,
		CurrentPrice:   ltp,
		AboveThreshold: dir == DirectionBullish && ltp >= threshold,
		BelowThreshold: dir == DirectionBearish && ltp <= threshold,
	}
}
