package models

// OrderStatus — закрытый набор статусов. Брокер отдаёт разнобой строк
// (TRADED/Completed/COMPLETE/...), нормализуем на границе клиента.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusTraded    OrderStatus = "TRADED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusUnknown   OrderStatus = "UNKNOWN"
)

func NormalizeOrderStatus(raw string) OrderStatus {
	switch raw {
	case "TRADED", "Traded", "Completed", "COMPLETE", "Complete":
		return OrderStatusTraded
	case "REJECTED", "Rejected":
		return OrderStatusRejected
	case "CANCELLED", "Cancelled":
		return OrderStatusCancelled
	case "PENDING", "Pending", "TRANSIT", "Transit", "PART_TRADED":
		return OrderStatusPending
	default:
		return OrderStatusUnknown
	}
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusTraded || s == OrderStatusRejected || s == OrderStatusCancelled
}

type OrderType string

const (
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeStopMarket OrderType = "STOPMARKET"
)

// OrderRequest — то, что исполнитель просит у брокера.
type OrderRequest struct {
	Symbol       string
	Exchange     string
	Side         Side
	OrderType    OrderType
	Quantity     int
	Price        float64 // 0 для MARKET и STOPMARKET
	TriggerPrice float64 // 0 кроме STOPMARKET
	AfterMarket  bool
}
