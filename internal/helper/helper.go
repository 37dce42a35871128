package helper

import (
	"math"
	"strings"
)

// Биржевой шаг цены NSE. Единый для всего инструментария.
const DefaultTickSize = 0.10

// RoundToTick — к ближайшему шагу цены.
func RoundToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	steps := math.Round(px / tick)
	return steps * tick
}

var indexSymbols = map[string]struct{}{
	"NIFTY":     {},
	"BANKNIFTY": {},
	"FINNIFTY":  {},
	"SENSEX":    {},
}

// ExchangeFor: индексы идут через сегмент INDEX, всё остальное NSE.
func ExchangeFor(symbol string) string {
	if _, ok := indexSymbols[strings.ToUpper(symbol)]; ok {
		return "INDEX"
	}
	return "NSE"
}
