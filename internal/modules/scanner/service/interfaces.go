package service

import (
	"context"
	"errors"
	"time"

	"inside_value_bot/internal/models"
)

// подменяется в тестах
var timeNow = time.Now

// Интерфейсы на стороне потребителя: сканеру всё равно, какой брокер за ними.

type Broker interface {
	PlaceOrder(ctx context.Context, req models.OrderRequest) (string, error)
	CancelOrder(ctx context.Context, orderID string) error
	OrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error)
	OrderAveragePrice(ctx context.Context, orderID string) (float64, error)
	ExecutedPrice(ctx context.Context, orderID string) (float64, error)
	LTP(ctx context.Context, symbol, exchange string) (float64, error)
}

type MarketData interface {
	DailyBar(ctx context.Context, symbol, exchange string) (models.Bar, error)
	RunningBar(ctx context.Context, symbol, exchange string) (models.Bar, error)
}

type TradeRecorder interface {
	Record(ctx context.Context, ev models.TradeEvent) error
}

var (
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrOrderRejected    = errors.New("order rejected")
	ErrOrderCancelled   = errors.New("order cancelled")
	ErrFillTimeout      = errors.New("fill confirmation timeout")
)
