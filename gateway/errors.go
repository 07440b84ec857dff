package gateway

import "errors"

var (
	// ErrConnection is returned when the handshake with the broker gateway
	// does not complete within the bounded interval.
	ErrConnection = errors.New("gateway: connection failed")

	// ErrDisconnected resolves every request that was outstanding when the
	// session lost its socket.
	ErrDisconnected = errors.New("gateway: disconnected")

	// ErrTimeout resolves an await whose deadline elapsed before a
	// terminal event arrived.
	ErrTimeout = errors.New("gateway: request timed out")

	// ErrCancelled resolves an await whose request was cancelled.
	ErrCancelled = errors.New("gateway: request cancelled")

	// ErrOrderRejected marks an order whose first terminal status was
	// Rejected.
	ErrOrderRejected = errors.New("gateway: order rejected")

	// ErrUnknownRequest is returned when awaiting a handle whose entry has
	// already been consumed.
	ErrUnknownRequest = errors.New("gateway: unknown request id")
)
