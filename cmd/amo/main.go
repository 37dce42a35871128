package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"inside_value_bot/internal/helper"
	"inside_value_bot/internal/models"
	catalog "inside_value_bot/internal/modules/catalog/service"
	dhan "inside_value_bot/internal/modules/dhan_client/service"
)

// Утилита для выставления after-market ордеров вечером,
// когда сканер уже остановлен. Креды берутся из окружения.

func run() error {
	var (
		symbol  = flag.String("symbol", "", "trading symbol, e.g. RELIANCE")
		side    = flag.String("side", "BUY", "BUY or SELL")
		qty     = flag.Int("qty", 0, "quantity, 0 = lot size from catalog")
		price   = flag.Float64("price", 0, "limit price, 0 = market")
		cat     = flag.String("catalog", "data/instruments.csv", "instrument catalog csv")
		doFunds = flag.Bool("funds", false, "print fund limits and exit")
		doBook  = flag.Bool("book", false, "print holdings and open positions, then exit")
	)
	flag.Parse()

	viper.SetEnvPrefix("dhan")
	viper.AutomaticEnv()
	viper.SetDefault("base_url", "https://api.dhan.co/v2")

	clientID := viper.GetString("client_id")
	accessToken := viper.GetString("access_token")
	if clientID == "" || accessToken == "" {
		return errors.New("DHAN_CLIENT_ID and DHAN_ACCESS_TOKEN must be set")
	}

	client := dhan.NewClientWith(clientID, accessToken, viper.GetString("base_url"))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *doFunds {
		funds, err := client.FundLimit(ctx)
		if err != nil {
			return errors.Wrap(err, "fund limit")
		}
		fmt.Printf("available balance: ₹%.2f\n", funds.AvailableBalance)
		return nil
	}

	if *doBook {
		holdings, err := client.Holdings(ctx)
		if err != nil {
			return errors.Wrap(err, "holdings")
		}
		fmt.Printf("holdings: %d\n", len(holdings))
		for _, h := range holdings {
			fmt.Printf("- %s: %d @ ₹%.2f\n", h.TradingSymbol, h.TotalQty, h.AvgCostPrice)
		}

		positions, err := client.Positions(ctx)
		if err != nil {
			return errors.Wrap(err, "positions")
		}
		fmt.Printf("open positions: %d\n", len(positions))
		for _, p := range positions {
			if p.PositionType == "CLOSED" {
				continue
			}
			fmt.Printf("- %s %s: net %d\n", p.TradingSymbol, p.PositionType, p.NetQty)
		}
		return nil
	}

	if *symbol == "" {
		return errors.New("-symbol is required")
	}

	c, err := catalog.Load(*cat)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	inst, ok := c.Resolve(*symbol)
	if !ok {
		matches := c.Search(*symbol, 5)
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Symbol)
		}
		return errors.Errorf("symbol %s not found, close matches: %s", *symbol, strings.Join(names, ", "))
	}

	quantity := *qty
	if quantity <= 0 {
		quantity = c.LotSize(*symbol)
	}

	orderType := models.OrderTypeMarket
	if *price > 0 {
		orderType = models.OrderTypeLimit
	}

	// прикидка маржи до выставления, чтобы не ловить reject утром
	margin, err := client.MarginRequirement(ctx, dhan.MarginRequest{
		ExchangeSegment: "NSE_EQ",
		TransactionType: strings.ToUpper(*side),
		Quantity:        quantity,
		ProductType:     "CNC",
		SecurityID:      inst.SecurityID,
		Price:           *price,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: margin check failed: %v\n", err)
	} else {
		fmt.Printf("required margin: ₹%.2f\n", margin.TotalMargin)
	}

	orderID, err := client.PlaceOrder(ctx, inst.SecurityID, models.OrderRequest{
		Symbol:      inst.Symbol,
		Exchange:    helper.ExchangeFor(inst.Symbol),
		Side:        models.Side(strings.ToUpper(*side)),
		OrderType:   orderType,
		Quantity:    quantity,
		Price:       *price,
		AfterMarket: true,
	})
	if err != nil {
		return errors.Wrap(err, "place amo order")
	}

	fmt.Printf("amo order placed: %s %s x%d, order id %s\n", *side, inst.Symbol, quantity, orderID)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
