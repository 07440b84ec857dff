package gateway

import (
	"time"

	"github.com/quantroute/ibtrader/market"
)

// CollectQuote folds the tick events of a resolved quote buffer into a
// Quote. Later ticks of the same type overwrite earlier ones, mirroring
// last-known-price semantics.
func CollectQuote(symbol string, buf []any) market.Quote {
	q := market.Quote{Symbol: symbol, Ticks: make(map[market.TickType]float64), Time: time.Now()}
	for _, item := range buf {
		if tick, ok := item.(TickEvent); ok {
			q.Ticks[tick.Type] = tick.Price
		}
	}
	return q
}

// CollectBars extracts the bar rows of a resolved historical buffer,
// preserving delivery order.
func CollectBars(buf []any) []market.Bar {
	var bars []market.Bar
	for _, item := range buf {
		if be, ok := item.(BarEvent); ok {
			bars = append(bars, be.Bar)
		}
	}
	return bars
}

// CollectPositions extracts the position rows of a resolved positions
// buffer.
func CollectPositions(buf []any) []market.Position {
	var out []market.Position
	for _, item := range buf {
		if pe, ok := item.(PositionEvent); ok {
			out = append(out, pe.Position)
		}
	}
	return out
}

// LastOrderStatus returns the final status event of an order buffer.
func LastOrderStatus(buf []any) (OrderStatusEvent, bool) {
	var last OrderStatusEvent
	found := false
	for _, item := range buf {
		if st, ok := item.(OrderStatusEvent); ok {
			last = st
			found = true
		}
	}
	return last, found
}
