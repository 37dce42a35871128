package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"inside_value_bot/pkg/logger"
)

// LTP с ретраями. На "Too many requests" ждём вдвое дольше.
func (c *Client) LTP(ctx context.Context, securityID, exchange string) (float64, error) {
	delay := c.quoteDelay

	var lastErr error
	for attempt := 0; attempt < c.quoteRetries; attempt++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(delay):
		}

		px, err := c.ltpOnce(ctx, securityID, exchange)
		if err == nil {
			return px, nil
		}
		lastErr = err

		if strings.Contains(err.Error(), "Too many requests") && attempt < c.quoteRetries-1 {
			logger.Error("[QUOTE] rate limited for %s, waiting %s before retry", securityID, delay*2)
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(delay * 2):
			}
			continue
		}
	}

	return 0, fmt.Errorf("LTP %s: %w", securityID, lastErr)
}

func (c *Client) ltpOnce(ctx context.Context, securityID, exchange string) (float64, error) {
	body := map[string][]string{
		segmentFor(exchange): {securityID},
	}

	data, err := c.request(ctx, http.MethodPost, "/marketfeed/ltp", body)
	if err != nil {
		return 0, err
	}

	var r struct {
		Data map[string]map[string]struct {
			LastPrice float64 `json:"last_price"`
		} `json:"data"`
		Status string `json:"status"`
	}
	if err := sonic.Unmarshal(data, &r); err != nil {
		return 0, fmt.Errorf("ltp decode: %w; body=%s", err, string(data))
	}

	seg, ok := r.Data[segmentFor(exchange)]
	if !ok {
		return 0, fmt.Errorf("ltp: no segment in response RAW=%s", string(data))
	}
	q, ok := seg[securityID]
	if !ok || q.LastPrice <= 0 {
		return 0, fmt.Errorf("ltp: zero price for %s", securityID)
	}

	return q.LastPrice, nil
}

// IntradayCandles — минутки/15m за текущую сессию.
func (c *Client) IntradayCandles(ctx context.Context, securityID, exchange, interval string) (CandleSeries, error) {
	now := time.Now()
	body := map[string]any{
		"securityId":      securityID,
		"exchangeSegment": segmentFor(exchange),
		"instrument":      instrumentFor(exchange),
		"interval":        interval,
		"fromDate":        now.AddDate(0, 0, -1).Format("2006-01-02"),
		"toDate":          now.Format("2006-01-02"),
	}

	data, err := c.request(ctx, http.MethodPost, "/charts/intraday", body)
	if err != nil {
		return CandleSeries{}, fmt.Errorf("IntradayCandles %s: %w", securityID, err)
	}

	var s CandleSeries
	if err := sonic.Unmarshal(data, &s); err != nil {
		return CandleSeries{}, fmt.Errorf("IntradayCandles decode: %w", err)
	}
	return s, nil
}

// DailyCandles — дневные бары за lookback дней.
func (c *Client) DailyCandles(ctx context.Context, securityID, exchange string, lookbackDays int) (CandleSeries, error) {
	now := time.Now()
	body := map[string]any{
		"securityId":      securityID,
		"exchangeSegment": segmentFor(exchange),
		"instrument":      instrumentFor(exchange),
		"expiryCode":      0,
		"fromDate":        now.AddDate(0, 0, -lookbackDays).Format("2006-01-02"),
		"toDate":          now.Format("2006-01-02"),
	}

	data, err := c.request(ctx, http.MethodPost, "/charts/historical", body)
	if err != nil {
		return CandleSeries{}, fmt.Errorf("DailyCandles %s: %w", securityID, err)
	}

	var s CandleSeries
	if err := sonic.Unmarshal(data, &s); err != nil {
		return CandleSeries{}, fmt.Errorf("DailyCandles decode: %w", err)
	}
	return s, nil
}

func instrumentFor(exchange string) string {
	if exchange == "INDEX" {
		return "INDEX"
	}
	return "EQUITY"
}
