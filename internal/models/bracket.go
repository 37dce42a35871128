package models

import "time"

// BracketState — жизненный цикл бракета. Терминальные состояния не откатываются.
type BracketState string

const (
	BracketPending     BracketState = "PENDING"
	BracketExecuted    BracketState = "EXECUTED"
	BracketStopLossHit BracketState = "STOP_LOSS_HIT"
	BracketTargetHit   BracketState = "TARGET_HIT"
)

func (s BracketState) Terminal() bool {
	return s == BracketStopLossHit || s == BracketTargetHit
}

// Bracket — вход + две защитные ноги. Нога может отсутствовать (ID пустой),
// если её не удалось выставить: позиция при этом остаётся открытой.
type Bracket struct {
	Symbol    string
	Exchange  string
	Direction Direction
	Quantity  int

	EntryOrderID  string
	SLOrderID     string
	TargetOrderID string

	EntryPrice float64
	StopLoss   float64
	Target     float64

	State  BracketState
	IsFlip bool

	EnteredAt time.Time
	ExitedAt  time.Time
	ExitPrice float64
}

// Trade — все бракеты по символу в рамках одной стратегии.
// Символ освобождается только когда все бракеты терминальны.
type Trade struct {
	Symbol   string
	Exchange string
	Strategy Direction
	Brackets []*Bracket
}

func (t *Trade) Closed() bool {
	for _, b := range t.Brackets {
		if !b.State.Terminal() {
			return false
		}
	}
	return len(t.Brackets) > 0
}

// TradeEvent — строка журнала сделок в Postgres.
type TradeEvent struct {
	Symbol   string
	Strategy Direction
	Kind     string // entry | stop_loss | target | flip
	OrderID  string
	Price    float64
	Quantity int
	At       time.Time
}
