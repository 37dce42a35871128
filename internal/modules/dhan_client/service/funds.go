package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

func (c *Client) FundLimit(ctx context.Context) (*FundLimit, error) {
	data, err := c.request(ctx, http.MethodGet, "/fundlimit", nil)
	if err != nil {
		return nil, fmt.Errorf("FundLimit: %w", err)
	}

	var f FundLimit
	if err := sonic.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("FundLimit decode: %w; body=%s", err, string(data))
	}
	return &f, nil
}

func (c *Client) MarginRequirement(ctx context.Context, req MarginRequest) (*Margin, error) {
	if req.ProductType == "" {
		req.ProductType = "INTRADAY"
	}

	data, err := c.request(ctx, http.MethodPost, "/margincalculator", req)
	if err != nil {
		return nil, fmt.Errorf("MarginRequirement: %w", err)
	}

	var m Margin
	if err := sonic.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("MarginRequirement decode: %w; body=%s", err, string(data))
	}
	return &m, nil
}

func (c *Client) Holdings(ctx context.Context) ([]Holding, error) {
	data, err := c.request(ctx, http.MethodGet, "/holdings", nil)
	if err != nil {
		return nil, fmt.Errorf("Holdings: %w", err)
	}

	var hs []Holding
	if err := sonic.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("Holdings decode: %w", err)
	}
	return hs, nil
}

func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	data, err := c.request(ctx, http.MethodGet, "/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("Positions: %w", err)
	}

	var ps []Position
	if err := sonic.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("Positions decode: %w", err)
	}
	return ps, nil
}
