package gateway

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OrderType is the broker order type code.
type OrderType string

const (
	Market OrderType = "MKT"
	Limit  OrderType = "LMT"
)

// OrderIntent is a computed, not-yet-submitted instruction for one
// instrument. Quantity is the signed target delta; the side is derived
// from its sign. An intent is consumed exactly once by submission.
type OrderIntent struct {
	ID         int64
	Symbol     string
	Quantity   int64
	Type       OrderType
	LimitPrice float64
}

// Side returns BUY for positive quantities and SELL for negative ones.
func (oi OrderIntent) Side() Side {
	if oi.Quantity < 0 {
		return Sell
	}
	return Buy
}

// AbsQuantity returns the unsigned share count to submit.
func (oi OrderIntent) AbsQuantity() int64 {
	if oi.Quantity < 0 {
		return -oi.Quantity
	}
	return oi.Quantity
}
