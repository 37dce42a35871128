package service

// DTO под ответы Dhan v2. Лишние поля не перечисляем.

type placeOrderResponse struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

type OrderDetail struct {
	OrderID            string  `json:"orderId"`
	OrderStatus        string  `json:"orderStatus"`
	TransactionType    string  `json:"transactionType"`
	ExchangeSegment    string  `json:"exchangeSegment"`
	TradingSymbol      string  `json:"tradingSymbol"`
	SecurityID         string  `json:"securityId"`
	Quantity           int     `json:"quantity"`
	Price              float64 `json:"price"`
	TriggerPrice       float64 `json:"triggerPrice"`
	AverageTradedPrice float64 `json:"averageTradedPrice"`
	FilledQty          int     `json:"filledQty"`
}

type tradeFill struct {
	OrderID     string  `json:"orderId"`
	TradedPrice float64 `json:"tradedPrice"`
	TradedQty   int     `json:"tradedQuantity"`
}

type FundLimit struct {
	AvailableBalance   float64 `json:"availabelBalance"` // опечатка на стороне API
	UtilizedAmount     float64 `json:"utilizedAmount"`
	CollateralAmount   float64 `json:"collateralAmount"`
	WithdrawableAmount float64 `json:"withdrawableBalance"`
}

type MarginRequest struct {
	ExchangeSegment string  `json:"exchangeSegment"`
	TransactionType string  `json:"transactionType"`
	Quantity        int     `json:"quantity"`
	ProductType     string  `json:"productType"`
	SecurityID      string  `json:"securityId"`
	Price           float64 `json:"price"`
}

type Margin struct {
	TotalMargin       float64 `json:"totalMargin"`
	SpanMargin        float64 `json:"spanMargin"`
	ExposureMargin    float64 `json:"exposureMargin"`
	AvailableBalance  float64 `json:"availableBalance"`
	InsufficientFunds float64 `json:"insufficientBalance"`
	Brokerage         float64 `json:"brokerage"`
	Leverage          string  `json:"leverage"`
}

type Holding struct {
	Exchange      string  `json:"exchange"`
	TradingSymbol string  `json:"tradingSymbol"`
	SecurityID    string  `json:"securityId"`
	TotalQty      int     `json:"totalQty"`
	AvgCostPrice  float64 `json:"avgCostPrice"`
}

type Position struct {
	TradingSymbol   string  `json:"tradingSymbol"`
	SecurityID      string  `json:"securityId"`
	PositionType    string  `json:"positionType"` // LONG | SHORT | CLOSED
	ExchangeSegment string  `json:"exchangeSegment"`
	ProductType     string  `json:"productType"`
	BuyAvg          float64 `json:"buyAvg"`
	SellAvg         float64 `json:"sellAvg"`
	NetQty          int     `json:"netQty"`
	RealizedProfit  float64 `json:"realizedProfit"`
	UnrealizedProfit float64 `json:"unrealizedProfit"`
}

// CandleSeries — колоночный формат /charts/*.
type CandleSeries struct {
	Open      []float64 `json:"open"`
	High      []float64 `json:"high"`
	Low       []float64 `json:"low"`
	Close     []float64 `json:"close"`
	Volume    []float64 `json:"volume"`
	Timestamp []int64   `json:"timestamp"`
}

func (s CandleSeries) Len() int { return len(s.Close) }
