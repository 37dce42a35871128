package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"inside_value_bot/internal/modules/config"
)

// Client — REST-клиент Dhan v2. Авторизация статическим access-token,
// подписи запросов нет.
type Client struct {
	http    *http.Client
	baseURL string

	clientID    string
	accessToken string

	quoteRetries int
	quoteDelay   time.Duration
}

func NewClient(cfg *config.Config) *Client {
	c := NewClientWith(cfg.Dhan.ClientID, cfg.Dhan.AccessToken, cfg.Dhan.BaseURL)
	c.quoteRetries = cfg.QuoteRetries
	c.quoteDelay = cfg.QuoteDelay
	return c
}

// NewClientWith — для вспомогательных утилит без полного конфига.
func NewClientWith(clientID, accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.dhan.co/v2"
	}
	return &Client{
		http:         &http.Client{Timeout: 15 * time.Second},
		baseURL:      baseURL,
		clientID:     clientID,
		accessToken:  accessToken,
		quoteRetries: 3,
		quoteDelay:   time.Second,
	}
}

// request — общий каркас: маршалим тело, ставим заголовки, читаем ответ.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("request marshal: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("request new: %w", err)
	}

	req.Header.Set("access-token", c.accessToken)
	req.Header.Set("client-id", c.clientID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request do: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s %s: Too many requests", method, path)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s %s http %d: %s", method, path, resp.StatusCode, string(data))
	}

	return data, nil
}
