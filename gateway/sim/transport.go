// Package sim provides an in-process broker transport. It answers market
// data, historical, position, and order requests from a configurable book,
// with the same id-tagged event flow a live gateway produces. It backs the
// demo commands and the end-to-end tests.
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantroute/ibtrader/gateway"
	"github.com/quantroute/ibtrader/market"
)

var errClosed = errors.New("sim: transport closed")

// Book seeds the simulated broker.
type Book struct {
	// Quotes maps symbol to tick prices served for market data requests.
	Quotes map[string]map[market.TickType]float64

	// Bars maps symbol to the historical series served in order.
	Bars map[string][]market.Bar

	// Positions is the account snapshot served for position requests.
	Positions []market.Position

	// Silent symbols never answer market data requests. Useful for
	// exercising timeouts.
	Silent map[string]bool

	// Reject symbols have their orders rejected.
	Reject map[string]bool

	// Latency delays every reply.
	Latency time.Duration
}

// Transport is a gateway.Transport backed by a Book.
type Transport struct {
	mu        sync.Mutex
	book      Book
	connected bool
	events    chan gateway.Event
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(book Book) *Transport {
	return &Transport{
		book:   book,
		events: make(chan gateway.Event, 256),
		closed: make(chan struct{}),
	}
}

func (t *Transport) Connect(ctx context.Context, host string, port, clientID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	t.connected = true
	t.mu.Unlock()
	return nil
}

func (t *Transport) Send(req gateway.Request) error {
	t.mu.Lock()
	connected := t.connected
	t.mu.Unlock()
	if !connected {
		return fmt.Errorf("sim: not connected")
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if t.book.Latency > 0 {
			select {
			case <-time.After(t.book.Latency):
			case <-t.closed:
				return
			}
		}
		switch req.Kind {
		case gateway.KindQuote:
			t.serveQuote(req)
		case gateway.KindHistorical:
			t.serveHistorical(req)
		case gateway.KindPositions:
			t.servePositions(req)
		case gateway.KindOrder:
			t.serveOrder(req)
		}
	}()
	return nil
}

func (t *Transport) Recv() (gateway.Event, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	case <-t.closed:
		return gateway.Event{}, errClosed
	}
}

func (t *Transport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	t.wg.Wait()
	return nil
}

func (t *Transport) emit(ev gateway.Event) {
	select {
	case t.events <- ev:
	case <-t.closed:
	}
}

func (t *Transport) serveQuote(req gateway.Request) {
	symbol := req.Instrument.Symbol
	if t.book.Silent[symbol] {
		return
	}
	ticks := t.book.Quotes[symbol]
	for _, tt := range req.TickTypes {
		if price, ok := ticks[tt]; ok {
			t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.TickEvent{Type: tt, Price: price}})
		}
	}
	// Mirrors the gateway's tick snapshot end marker.
	t.emit(gateway.Event{RequestID: req.ID, Terminal: true})
}

func (t *Transport) serveHistorical(req gateway.Request) {
	for _, bar := range t.book.Bars[req.Instrument.Symbol] {
		t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.BarEvent{Bar: bar}})
	}
	t.emit(gateway.Event{RequestID: req.ID, Terminal: true})
}

func (t *Transport) servePositions(req gateway.Request) {
	for _, pos := range t.book.Positions {
		t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.PositionEvent{Position: pos}})
	}
	t.emit(gateway.Event{RequestID: req.ID, Terminal: true})
}

func (t *Transport) serveOrder(req gateway.Request) {
	intent := req.Order
	qty := float64(intent.AbsQuantity())

	t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.OrderStatusEvent{
		OrderID: intent.ID, Status: gateway.OrderSubmitted, Remaining: qty,
	}})

	if t.book.Reject[intent.Symbol] {
		t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.OrderStatusEvent{
			OrderID: intent.ID, Status: gateway.OrderRejected, Remaining: qty, Reason: "rejected by venue",
		}})
		return
	}

	price := t.fillPrice(intent.Symbol)
	if qty > 1 {
		t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.OrderStatusEvent{
			OrderID: intent.ID, Status: gateway.OrderPartiallyFilled,
			Filled: qty / 2, Remaining: qty - qty/2, AvgFillPrice: price,
		}})
	}
	t.emit(gateway.Event{RequestID: req.ID, Payload: gateway.OrderStatusEvent{
		OrderID: intent.ID, Status: gateway.OrderFilled, Filled: qty, AvgFillPrice: price,
	}})
}

func (t *Transport) fillPrice(symbol string) float64 {
	ticks := t.book.Quotes[symbol]
	for _, tt := range []market.TickType{market.TickLast, market.TickClose, market.TickBid} {
		if p, ok := ticks[tt]; ok {
			return p
		}
	}
	return 0
}
