package service

import (
	"context"
	"fmt"
	"time"

	catalog "inside_value_bot/internal/modules/catalog/service"
	feed "inside_value_bot/internal/modules/dhan_feed/service"
	"inside_value_bot/internal/models"
)

// Broker — фасад для сканера: работает тикерами, securityId резолвит
// через справочник. Живая цена берётся из фида, если он подключён.
type Broker struct {
	client  *Client
	catalog *catalog.Catalog
	feed    *feed.Client // nil, если фид выключен
}

const feedMaxAge = 5 * time.Second

func NewBroker(client *Client, cat *catalog.Catalog, f *feed.Client) *Broker {
	return &Broker{client: client, catalog: cat, feed: f}
}

func (b *Broker) securityID(symbol string) (string, error) {
	in, ok := b.catalog.Resolve(symbol)
	if !ok {
		return "", fmt.Errorf("unknown symbol %q", symbol)
	}
	return in.SecurityID, nil
}

func (b *Broker) PlaceOrder(ctx context.Context, req models.OrderRequest) (string, error) {
	id, err := b.securityID(req.Symbol)
	if err != nil {
		return "", err
	}
	return b.client.PlaceOrder(ctx, id, req)
}

func (b *Broker) CancelOrder(ctx context.Context, orderID string) error {
	return b.client.CancelOrder(ctx, orderID)
}

func (b *Broker) OrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	return b.client.OrderStatus(ctx, orderID)
}

func (b *Broker) OrderAveragePrice(ctx context.Context, orderID string) (float64, error) {
	return b.client.OrderAveragePrice(ctx, orderID)
}

func (b *Broker) ExecutedPrice(ctx context.Context, orderID string) (float64, error) {
	return b.client.ExecutedPrice(ctx, orderID)
}

func (b *Broker) LTP(ctx context.Context, symbol, exchange string) (float64, error) {
	id, err := b.securityID(symbol)
	if err != nil {
		return 0, err
	}

	if b.feed != nil {
		if px, ok := b.feed.LTP(id, feedMaxAge); ok {
			return px, nil
		}
	}

	return b.client.LTP(ctx, id, exchange)
}
