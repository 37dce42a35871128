package service

import (
	"sort"
	"sync"

	"inside_value_bot/internal/models"
	"inside_value_bot/pkg/logger"
)

// ActiveSymbols — межстратегийный замок: символ торгуется максимум
// одной стратегией. Claim до выставления ордера, Release при неудаче
// входа или полном закрытии.
type ActiveSymbols struct {
	mu  sync.Mutex
	set map[string]models.Direction
}

func NewActiveSymbols() *ActiveSymbols {
	return &ActiveSymbols{set: make(map[string]models.Direction)}
}

func (a *ActiveSymbols) Claim(symbol string, strategy models.Direction) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if owner, ok := a.set[symbol]; ok {
		logger.Info("[LOCK] %s already traded by %s strategy, skipping %s", symbol, owner, strategy)
		return false
	}

	a.set[symbol] = strategy
	logger.Info("[LOCK] %s is now being traded by %s strategy", symbol, strategy)
	return true
}

func (a *ActiveSymbols) Release(symbol string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.set[symbol]; ok {
		delete(a.set, symbol)
		logger.Info("[LOCK] %s released from trading restrictions", symbol)
	}
}

func (a *ActiveSymbols) Active(symbol string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.set[symbol]
	return ok
}

func (a *ActiveSymbols) List() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.set))
	for s := range a.set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
