package gateway

import (
	"context"

	"github.com/quantroute/ibtrader/market"
)

// Kind classifies an outstanding request by its terminal condition.
type Kind int

const (
	KindQuote Kind = iota
	KindHistorical
	KindPositions
	KindOrder
)

func (k Kind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindHistorical:
		return "historical"
	case KindPositions:
		return "positions"
	case KindOrder:
		return "order"
	}
	return "unknown"
}

// Request is the outbound message handed to a Transport. Exactly one of
// the kind-specific field groups is populated.
type Request struct {
	ID         int64
	Kind       Kind
	Instrument market.Instrument

	// KindQuote
	TickTypes []market.TickType

	// KindHistorical
	Duration   string
	BarSize    string
	WhatToShow string
	UseRTH     bool

	// KindOrder
	Order OrderIntent
}

// Event is one inbound message from the broker. Terminal marks the end of
// the stream for the request id; a terminal event may or may not carry a
// payload.
type Event struct {
	RequestID int64
	Payload   any
	Terminal  bool
}

// Transport is the boundary with the broker gateway process. An
// implementation speaks whatever wire protocol the venue requires; the
// session assumes only send/receive of id-tagged messages with no
// guarantees about pacing or latency.
type Transport interface {
	// Connect establishes the socket session. It must respect ctx
	// cancellation so the caller can bound the handshake.
	Connect(ctx context.Context, host string, port int, clientID int) error

	// Send issues one request. Inbound data for it is delivered through
	// Recv, tagged with the request id.
	Send(req Request) error

	// Recv blocks for the next inbound event. It returns a non-nil error
	// once the session is disconnected.
	Recv() (Event, error)

	Close() error
}
