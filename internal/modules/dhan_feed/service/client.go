package service

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"inside_value_bot/pkg/logger"
)

// Client — подписка на тикер-фид и кеш последних цен.
// Сканер сначала смотрит сюда, REST-котировка остаётся запасным путём.
type Client struct {
	url      string
	token    string
	clientID string

	wsDialer *websocket.Dialer

	mu     sync.RWMutex
	prices map[string]quote // securityID -> последний тик
	subs   map[string]struct{}
	conn   *websocket.Conn
}

type quote struct {
	px float64
	at time.Time
}

// Тик фида. Формат JSON-канала котировок.
type tickMsg struct {
	SecurityID string  `json:"securityId"`
	LTP        float64 `json:"ltp"`
}

func NewClient(url, clientID, token string) *Client {
	return &Client{
		url:      url,
		token:    token,
		clientID: clientID,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		prices:   make(map[string]quote),
		subs:     make(map[string]struct{}),
	}
}

// Subscribe добавляет инструмент в подписку. До коннекта просто копится.
func (c *Client) Subscribe(securityIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range securityIDs {
		c.subs[id] = struct{}{}
	}
	if c.conn != nil {
		c.sendSubscribeLocked()
	}
}

func (c *Client) sendSubscribeLocked() {
	ids := make([]string, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	msg := map[string]any{
		"RequestCode":    15, // ticker packet
		"InstrumentList": ids,
	}
	payload, _ := sonic.Marshal(msg)
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logger.Error("[FEED] subscribe write: %v", err)
	}
}

// Start держит соединение с реконнектом. Блокируется до отмены ctx.
func (c *Client) Start(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.runOnce(ctx); err != nil {
			logger.Error("[FEED] connection lost: %v, reconnect in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	url := c.url + "?token=" + c.token + "&clientId=" + c.clientID + "&authType=2"

	conn, _, err := c.wsDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.sendSubscribeLocked()
	subs := len(c.subs)
	c.mu.Unlock()

	logger.Info("[FEED] connected, %d instruments", subs)

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var t tickMsg
		if err := sonic.Unmarshal(data, &t); err != nil || t.SecurityID == "" || t.LTP <= 0 {
			continue
		}

		c.mu.Lock()
		c.prices[t.SecurityID] = quote{px: t.LTP, at: time.Now()}
		c.mu.Unlock()
	}
}

// LTP — цена из кеша, если тик свежее maxAge.
func (c *Client) LTP(securityID string, maxAge time.Duration) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.prices[securityID]
	if !ok || time.Since(q.at) > maxAge {
		return 0, false
	}
	return q.px, true
}

// Connected — есть ли активное соединение.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}
