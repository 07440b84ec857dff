// Package portfolio converts target weights into orders against a broker
// gateway session, and tracks account positions.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/quantroute/ibtrader/gateway"
	"github.com/quantroute/ibtrader/market"
)

// Portfolio owns one instrument registry and a net-asset-value figure.
// NAV is externally supplied, never derived from account data; it may be
// NaN while pending computation. A portfolio has a single writer; quote
// reads may run concurrently.
type Portfolio struct {
	session  *gateway.Session
	registry *market.Registry
	nav      float64
	window   time.Duration
}

// New wraps a registry and session into a portfolio. nav must be
// non-negative or NaN.
func New(s *gateway.Session, reg *market.Registry, nav float64) (*Portfolio, error) {
	if nav < 0 {
		return nil, fmt.Errorf("portfolio: nav must be non-negative, got %v", nav)
	}
	return &Portfolio{session: s, registry: reg, nav: nav}, nil
}

// NAV returns the current net asset value. NaN means unset.
func (p *Portfolio) NAV() float64 { return p.nav }

// SetNAV replaces the net asset value.
func (p *Portfolio) SetNAV(nav float64) error {
	if nav < 0 {
		return fmt.Errorf("portfolio: nav must be non-negative, got %v", nav)
	}
	p.nav = nav
	return nil
}

// Registry returns the portfolio's instrument registry.
func (p *Portfolio) Registry() *market.Registry { return p.registry }

// SetSnapshotWindow overrides the quote snapshot window. Zero restores
// the gateway default.
func (p *Portfolio) SetSnapshotWindow(d time.Duration) { p.window = d }

// Quotes fetches one price per held instrument for the given tick type,
// defaulting to CLOSE. Requests are issued concurrently and awaited
// independently, so one slow symbol costs one timeout, not one per
// symbol. Symbols that time out or resolve without the requested tick are
// reported through PartialQuoteError while the rest are returned.
func (p *Portfolio) Quotes(ctx context.Context, tick market.TickType) (map[string]float64, error) {
	if tick == "" {
		tick = market.TickClose
	}
	symbols := p.registry.Symbols()
	quotes := make(map[string]float64, len(symbols))
	var missing []string

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		go func() {
			defer wg.Done()
			price, err := p.quoteOne(ctx, symbol, tick)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				missing = append(missing, symbol)
				return
			}
			quotes[symbol] = price
		}()
	}
	wg.Wait()

	if len(missing) > 0 {
		return quotes, &PartialQuoteError{Missing: missing}
	}
	return quotes, nil
}

func (p *Portfolio) quoteOne(ctx context.Context, symbol string, tick market.TickType) (float64, error) {
	in, err := p.registry.Get(symbol)
	if err != nil {
		return 0, err
	}
	h, err := p.session.SubmitMarketDataRequest(in, []market.TickType{tick}, p.window)
	if err != nil {
		return 0, err
	}
	buf, err := p.session.Await(ctx, h)
	if err != nil {
		return 0, err
	}
	price, ok := gateway.CollectQuote(symbol, buf).Price(tick)
	if !ok {
		return 0, fmt.Errorf("%w: %q has no %s tick", ErrMissingQuote, symbol, tick)
	}
	return price, nil
}

// HistoricalSeries fetches a time-ordered bar series per held instrument.
// Instruments are requested one at a time, preserving per-instrument bar
// order. Per-instrument failures are collected into PartialSeriesError;
// series obtained for the other symbols are still returned.
func (p *Portfolio) HistoricalSeries(ctx context.Context, duration, barSize string) (map[string][]market.Bar, error) {
	series := make(map[string][]market.Bar)
	failed := make(map[string]error)

	for _, in := range p.registry.Instruments() {
		h, err := p.session.SubmitHistoricalDataRequest(in, gateway.HistoricalRequest{
			Duration: duration,
			BarSize:  barSize,
		})
		if err != nil {
			failed[in.Symbol] = err
			continue
		}
		buf, err := p.session.Await(ctx, h)
		if err != nil {
			failed[in.Symbol] = err
			continue
		}
		series[in.Symbol] = gateway.CollectBars(buf)
	}

	if len(failed) > 0 {
		return series, &PartialSeriesError{Failed: failed}
	}
	return series, nil
}

// OrderQuantities converts a weight delta into integer share counts:
// (target - current) * nav / quote, truncated toward zero since
// fractional shares are not orderable. A symbol present in current but
// absent from target is treated as a full exit (target weight zero).
func (p *Portfolio) OrderQuantities(current, target, quotes map[string]float64) (map[string]int64, error) {
	if math.IsNaN(p.nav) {
		return nil, ErrNAVUnset
	}
	quantities := make(map[string]int64, len(current))
	for symbol, cw := range current {
		quote, ok := quotes[symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingQuote, symbol)
		}
		if quote == 0 {
			return nil, fmt.Errorf("%w: %q", ErrDivisionByZero, symbol)
		}
		quantities[symbol] = int64((target[symbol] - cw) * p.nav / quote)
	}
	return quantities, nil
}

// BuildOrders turns signed quantities into order intents, skipping exact
// zeros. Side derives from the sign; each intent gets a fresh order id.
func (p *Portfolio) BuildOrders(quantities map[string]int64) map[string]gateway.OrderIntent {
	orders := make(map[string]gateway.OrderIntent)
	for symbol, qty := range quantities {
		if qty == 0 {
			continue
		}
		orders[symbol] = gateway.OrderIntent{
			ID:       p.session.NextOrderID(),
			Symbol:   symbol,
			Quantity: qty,
			Type:     gateway.Market,
		}
	}
	return orders
}

// OrderResult is the per-symbol outcome of a submission round.
type OrderResult struct {
	OrderID      int64
	Status       gateway.OrderStatus
	Filled       float64
	AvgFillPrice float64
	Err          error
}

// SubmitAll submits every order concurrently and collects per-symbol
// results. A single order failure never aborts the remaining orders.
func (p *Portfolio) SubmitAll(ctx context.Context, orders map[string]gateway.OrderIntent) map[string]OrderResult {
	results := make(map[string]OrderResult, len(orders))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for symbol, intent := range orders {
		symbol, intent := symbol, intent
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := p.submitOne(ctx, symbol, intent)
			mu.Lock()
			results[symbol] = res
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

func (p *Portfolio) submitOne(ctx context.Context, symbol string, intent gateway.OrderIntent) OrderResult {
	in, err := p.registry.Get(symbol)
	if err != nil {
		return OrderResult{OrderID: intent.ID, Err: err}
	}
	h, err := p.session.SubmitOrder(in, intent)
	if err != nil {
		return OrderResult{OrderID: intent.ID, Err: err}
	}
	buf, err := p.session.Await(ctx, h)
	if err != nil {
		return OrderResult{OrderID: h.ID(), Err: err}
	}
	st, ok := gateway.LastOrderStatus(buf)
	if !ok {
		return OrderResult{OrderID: h.ID(), Err: fmt.Errorf("portfolio: order %d resolved without a status", h.ID())}
	}
	res := OrderResult{
		OrderID:      st.OrderID,
		Status:       st.Status,
		Filled:       st.Filled,
		AvgFillPrice: st.AvgFillPrice,
	}
	switch st.Status {
	case gateway.OrderRejected:
		res.Err = fmt.Errorf("%w: %s", gateway.ErrOrderRejected, st.Reason)
	case gateway.OrderCancelled:
		res.Err = gateway.ErrCancelled
	}
	return res
}
