package gateway

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/quantroute/ibtrader/market"
)

const (
	// DefaultTimeout bounds Await when the caller does not override it.
	DefaultTimeout = 30 * time.Second

	// DefaultSnapshotWindow is how long a quote request collects ticks
	// before resolving with whatever arrived.
	DefaultSnapshotWindow = 500 * time.Millisecond

	// Historical request defaults.
	DefaultDuration   = "1 Y"
	DefaultBarSize    = "1 day"
	DefaultWhatToShow = "TRADES"
)

// HistoricalRequest carries the parameters of a historical bar request.
// Zero-value fields fall back to the package defaults.
type HistoricalRequest struct {
	Duration   string
	BarSize    string
	WhatToShow string
	UseRTH     bool
}

// Session owns the single connection to the broker gateway. It assigns
// strictly-increasing request and order ids from one shared sequence, so
// ids never collide across the two spaces, and it runs the event pump
// that routes inbound messages to the correlator.
//
// Suspension happens only inside Await; the pump goroutine never blocks
// on a caller.
type Session struct {
	transport Transport
	corr      *Correlator
	timeout   time.Duration
	nextID    atomic.Int64
	closed    atomic.Bool
	pumpDone  chan struct{}
}

// Connect establishes the session and starts the event pump. The
// handshake is bounded: if ctx carries no deadline, DefaultTimeout is
// applied. Failure is reported as ErrConnection.
func Connect(ctx context.Context, t Transport, host string, port, clientID int) (*Session, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	if err := t.Connect(ctx, host, port, clientID); err != nil {
		return nil, fmt.Errorf("%w: %s:%d clientID=%d: %v", ErrConnection, host, port, clientID, err)
	}

	s := &Session{
		transport: t,
		corr:      NewCorrelator(),
		timeout:   DefaultTimeout,
		pumpDone:  make(chan struct{}),
	}
	go s.pump()
	log.Info().Str("host", host).Int("port", port).Int("clientID", clientID).Msg("session connected")
	return s, nil
}

// pump is the single goroutine that owns the inbound side of the socket.
// It applies the per-kind terminal policy for order statuses and hands
// everything else through unchanged.
func (s *Session) pump() {
	defer close(s.pumpDone)
	for {
		ev, err := s.transport.Recv()
		if err != nil {
			if !s.closed.Load() {
				log.Warn().Err(err).Msg("event pump stopped, failing outstanding requests")
			}
			s.corr.FailAll(ErrDisconnected)
			return
		}
		terminal := ev.Terminal
		if st, ok := ev.Payload.(OrderStatusEvent); ok {
			terminal = st.Status.Terminal()
		}
		s.corr.OnEvent(ev.RequestID, ev.Payload, terminal)
	}
}

// NextRequestID returns a fresh id, unique for the session lifetime.
func (s *Session) NextRequestID() int64 { return s.nextID.Add(1) }

// NextOrderID returns a fresh order id. Order ids draw from the same
// sequence as request ids.
func (s *Session) NextOrderID() int64 { return s.nextID.Add(1) }

// SetTimeout overrides the default Await timeout.
func (s *Session) SetTimeout(d time.Duration) { s.timeout = d }

// SubmitMarketDataRequest registers a pending quote request and sends it.
// window bounds the snapshot collection; zero means the default.
func (s *Session) SubmitMarketDataRequest(in market.Instrument, ticks []market.TickType, window time.Duration) (*Handle, error) {
	if len(ticks) == 0 {
		ticks = market.DefaultTickTypes
	}
	if window <= 0 {
		window = DefaultSnapshotWindow
	}
	id := s.NextRequestID()
	h := s.corr.RegisterSnapshot(id, window)
	err := s.transport.Send(Request{ID: id, Kind: KindQuote, Instrument: in, TickTypes: ticks})
	if err != nil {
		s.corr.Fail(id, err)
		return nil, fmt.Errorf("market data request %d (%s): %w", id, in.Symbol, err)
	}
	return h, nil
}

// SubmitHistoricalDataRequest registers a pending bar series request and
// sends it. The request completes on the broker's end-of-data marker.
func (s *Session) SubmitHistoricalDataRequest(in market.Instrument, req HistoricalRequest) (*Handle, error) {
	if req.Duration == "" {
		req.Duration = DefaultDuration
	}
	if req.BarSize == "" {
		req.BarSize = DefaultBarSize
	}
	if req.WhatToShow == "" {
		req.WhatToShow = DefaultWhatToShow
	}
	id := s.NextRequestID()
	h := s.corr.Register(id, KindHistorical)
	err := s.transport.Send(Request{
		ID:         id,
		Kind:       KindHistorical,
		Instrument: in,
		Duration:   req.Duration,
		BarSize:    req.BarSize,
		WhatToShow: req.WhatToShow,
		UseRTH:     req.UseRTH,
	})
	if err != nil {
		s.corr.Fail(id, err)
		return nil, fmt.Errorf("historical data request %d (%s): %w", id, in.Symbol, err)
	}
	return h, nil
}

// SubmitPositionsRequest registers a pending position snapshot request.
// The request completes on the broker's end-of-positions marker.
func (s *Session) SubmitPositionsRequest() (*Handle, error) {
	id := s.NextRequestID()
	h := s.corr.Register(id, KindPositions)
	if err := s.transport.Send(Request{ID: id, Kind: KindPositions}); err != nil {
		s.corr.Fail(id, err)
		return nil, fmt.Errorf("positions request %d: %w", id, err)
	}
	return h, nil
}

// SubmitOrder registers a pending order acknowledgement and sends the
// order. If the intent carries no id one is assigned. The handle resolves
// on the first Filled, Cancelled, or Rejected status.
func (s *Session) SubmitOrder(in market.Instrument, intent OrderIntent) (*Handle, error) {
	if intent.ID == 0 {
		intent.ID = s.NextOrderID()
	}
	if intent.Type == "" {
		intent.Type = Market
	}
	h := s.corr.Register(intent.ID, KindOrder)
	err := s.transport.Send(Request{ID: intent.ID, Kind: KindOrder, Instrument: in, Order: intent})
	if err != nil {
		s.corr.Fail(intent.ID, err)
		return nil, fmt.Errorf("order %d (%s %d %s): %w", intent.ID, intent.Side(), intent.AbsQuantity(), intent.Symbol, err)
	}
	return h, nil
}

// Await blocks until h resolves or the session timeout elapses.
func (s *Session) Await(ctx context.Context, h *Handle) ([]any, error) {
	return s.corr.Await(ctx, h, s.timeout)
}

// AwaitTimeout blocks until h resolves or d elapses.
func (s *Session) AwaitTimeout(ctx context.Context, h *Handle, d time.Duration) ([]any, error) {
	return s.corr.Await(ctx, h, d)
}

// Cancel abandons the request behind h. A concurrent Await returns
// promptly with ErrCancelled.
func (s *Session) Cancel(h *Handle) { s.corr.Cancel(h) }

// Outstanding reports the number of unresolved requests.
func (s *Session) Outstanding() int { return s.corr.Outstanding() }

// Dropped reports how many stray events have been discarded.
func (s *Session) Dropped() uint64 { return s.corr.Dropped() }

// Close disconnects. All outstanding requests resolve as failed with
// ErrDisconnected.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.transport.Close()
	<-s.pumpDone
	return err
}
