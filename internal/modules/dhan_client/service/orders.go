package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"inside_value_bot/internal/models"
	"inside_value_bot/pkg/logger"
)

// сегменты Dhan по нашим биржевым меткам
func segmentFor(exchange string) string {
	switch exchange {
	case "INDEX":
		return "IDX_I"
	case "NSE":
		return "NSE_EQ"
	case "NSE_FNO":
		return "NSE_FNO"
	default:
		return "NSE_EQ"
	}
}

func dhanOrderType(t models.OrderType) string {
	switch t {
	case models.OrderTypeStopMarket:
		return "STOP_LOSS_MARKET"
	default:
		return string(t)
	}
}

// PlaceOrder выставляет ордер и возвращает orderId.
func (c *Client) PlaceOrder(ctx context.Context, securityID string, req models.OrderRequest) (string, error) {
	if req.Quantity <= 0 {
		return "", fmt.Errorf("PlaceOrder: quantity <= 0")
	}

	body := map[string]any{
		"dhanClientId":    c.clientID,
		"transactionType": string(req.Side),
		"exchangeSegment": segmentFor(req.Exchange),
		"productType":     "INTRADAY",
		"orderType":       dhanOrderType(req.OrderType),
		"validity":        "DAY",
		"securityId":      securityID,
		"quantity":        req.Quantity,
		"price":           req.Price,
		"triggerPrice":    req.TriggerPrice,
	}
	if req.AfterMarket {
		body["afterMarketOrder"] = true
		body["amoTime"] = "OPEN"
		body["productType"] = "CNC"
	}

	data, err := c.request(ctx, http.MethodPost, "/orders", body)
	if err != nil {
		return "", fmt.Errorf("PlaceOrder %s %s: %w", req.Symbol, req.OrderType, err)
	}

	var r placeOrderResponse
	if err := sonic.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("PlaceOrder decode: %w; body=%s", err, string(data))
	}
	if r.OrderID == "" {
		return "", fmt.Errorf("PlaceOrder: empty orderId RAW=%s", string(data))
	}

	logger.Info("[ORDER] %s %s %s qty=%d id=%s status=%s",
		req.Symbol, req.Side, req.OrderType, req.Quantity, r.OrderID, r.OrderStatus)

	return r.OrderID, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.request(ctx, http.MethodDelete, "/orders/"+orderID, nil)
	if err != nil {
		return fmt.Errorf("CancelOrder %s: %w", orderID, err)
	}
	return nil
}

func (c *Client) OrderDetail(ctx context.Context, orderID string) (*OrderDetail, error) {
	data, err := c.request(ctx, http.MethodGet, "/orders/"+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("OrderDetail %s: %w", orderID, err)
	}

	var d OrderDetail
	if err := sonic.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("OrderDetail decode: %w; body=%s", err, string(data))
	}
	return &d, nil
}

// OrderStatus — статус, нормализованный в закрытый набор.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (models.OrderStatus, error) {
	d, err := c.OrderDetail(ctx, orderID)
	if err != nil {
		return models.OrderStatusUnknown, err
	}
	return models.NormalizeOrderStatus(d.OrderStatus), nil
}

// OrderAveragePrice — средняя цена из деталей ордера.
func (c *Client) OrderAveragePrice(ctx context.Context, orderID string) (float64, error) {
	d, err := c.OrderDetail(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if d.AverageTradedPrice <= 0 {
		return 0, fmt.Errorf("OrderAveragePrice %s: no average price", orderID)
	}
	return d.AverageTradedPrice, nil
}

// ExecutedPrice — средневзвешенная цена по сделкам ордера.
func (c *Client) ExecutedPrice(ctx context.Context, orderID string) (float64, error) {
	data, err := c.request(ctx, http.MethodGet, "/trades/"+orderID, nil)
	if err != nil {
		return 0, fmt.Errorf("ExecutedPrice %s: %w", orderID, err)
	}

	var fills []tradeFill
	if err := sonic.Unmarshal(data, &fills); err != nil {
		return 0, fmt.Errorf("ExecutedPrice decode: %w; body=%s", err, string(data))
	}
	if len(fills) == 0 {
		return 0, fmt.Errorf("ExecutedPrice %s: no fills", orderID)
	}

	var notional float64
	var qty int
	for _, f := range fills {
		notional += f.TradedPrice * float64(f.TradedQty)
		qty += f.TradedQty
	}
	if qty == 0 {
		return 0, fmt.Errorf("ExecutedPrice %s: zero traded qty", orderID)
	}
	return notional / float64(qty), nil
}
