package gateway

import "github.com/quantroute/ibtrader/market"

// TickEvent is one price tick delivered for a market data request.
type TickEvent struct {
	Type  market.TickType
	Price float64
}

// BarEvent is one historical bar row. Rows for a request id arrive in the
// order the broker sent them.
type BarEvent struct {
	Bar market.Bar
}

// PositionEvent is one row of a position stream.
type PositionEvent struct {
	Position market.Position
}

// OrderStatus is the broker-reported state of a submitted order.
type OrderStatus string

const (
	OrderSubmitted       OrderStatus = "Submitted"
	OrderPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderFilled          OrderStatus = "Filled"
	OrderCancelled       OrderStatus = "Cancelled"
	OrderRejected        OrderStatus = "Rejected"
)

// Terminal reports whether no further status will follow. Partial fills
// are not terminal.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderFilled, OrderCancelled, OrderRejected:
		return true
	}
	return false
}

// OrderStatusEvent reports progress of a submitted order.
type OrderStatusEvent struct {
	OrderID      int64
	Status       OrderStatus
	Filled       float64
	Remaining    float64
	AvgFillPrice float64
	Reason       string
}
