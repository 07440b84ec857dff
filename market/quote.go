package market

import "time"

// TickType names a quoted price field, matching the TWS tick type strings.
type TickType string

const (
	TickBid   TickType = "BID"
	TickAsk   TickType = "ASK"
	TickLast  TickType = "LAST"
	TickClose TickType = "CLOSE"
	TickHigh  TickType = "HIGH"
	TickLow   TickType = "LOW"
)

// DefaultTickTypes is the tick cycle requested when the caller does not
// specify one.
var DefaultTickTypes = []TickType{TickBid, TickAsk, TickLast, TickClose}

// Quote holds the last-known prices for one instrument at one point in
// time, keyed by tick type. Quotes are transient snapshots; the zero value
// of a missing tick type is absence, not zero price.
type Quote struct {
	Symbol string
	Ticks  map[TickType]float64
	Time   time.Time
}

// Price returns the price for the given tick type and whether it was
// present in the snapshot.
func (q Quote) Price(t TickType) (float64, bool) {
	p, ok := q.Ticks[t]
	return p, ok
}
