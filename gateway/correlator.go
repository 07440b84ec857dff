package gateway

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// State is the completion state of a pending request.
type State int

const (
	StatePending State = iota
	StateComplete
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Handle names one registered request. It is returned by Register and
// consumed by Await or Cancel.
type Handle struct {
	id   int64
	kind Kind
	done chan struct{}
}

func (h *Handle) ID() int64  { return h.id }
func (h *Handle) Kind() Kind { return h.kind }

// pending is one outstanding request. The buffer and state are mutated
// only under the correlator lock; done is closed exactly once, on the
// transition out of StatePending.
type pending struct {
	kind   Kind
	buf    []any
	state  State
	err    error
	done   chan struct{}
	window *time.Timer
}

// Correlator maps request ids to pending-result slots. Callbacks from the
// event pump land in OnEvent; callers block in Await until the matching
// terminal condition is observed or their deadline elapses.
//
// The lock is held only for table mutations, never across an Await, so
// callback delivery and waiting callers proceed concurrently.
type Correlator struct {
	mu      sync.Mutex
	table   map[int64]*pending
	dropped atomic.Uint64
}

func NewCorrelator() *Correlator {
	return &Correlator{table: make(map[int64]*pending)}
}

// Register creates a pending entry for id. The caller must not reuse an
// id for the lifetime of the session.
func (c *Correlator) Register(id int64, kind Kind) *Handle {
	p := &pending{kind: kind, done: make(chan struct{})}
	c.mu.Lock()
	c.table[id] = p
	c.mu.Unlock()
	return &Handle{id: id, kind: kind, done: p.done}
}

// RegisterSnapshot creates a quote entry that completes on its terminal
// tick-cycle event or when the snapshot window elapses, whichever first.
// Whatever ticks were buffered by then are the result.
func (c *Correlator) RegisterSnapshot(id int64, window time.Duration) *Handle {
	h := c.Register(id, KindQuote)
	if window > 0 {
		c.mu.Lock()
		if p, ok := c.table[id]; ok {
			p.window = time.AfterFunc(window, func() {
				c.resolve(id, StateComplete, nil)
			})
		}
		c.mu.Unlock()
	}
	return h
}

// OnEvent appends payload to the entry matching id and, if terminal,
// completes it. Events for unknown or already-resolved ids are dropped
// and counted; the broker delivers strays after cancellation and that
// must never crash the caller.
func (c *Correlator) OnEvent(id int64, payload any, terminal bool) {
	c.mu.Lock()
	p, ok := c.table[id]
	if !ok || p.state != StatePending {
		c.mu.Unlock()
		c.dropped.Add(1)
		log.Debug().Int64("reqID", id).Bool("terminal", terminal).Msg("dropping stray event")
		return
	}
	if payload != nil {
		p.buf = append(p.buf, payload)
	}
	if terminal {
		c.finishLocked(p, StateComplete, nil)
	}
	c.mu.Unlock()
}

// Cancel transitions the entry to failed with ErrCancelled. Safe to call
// concurrently with a pending Await, which observes the cancellation and
// returns promptly.
func (c *Correlator) Cancel(h *Handle) {
	c.resolve(h.id, StateFailed, ErrCancelled)
}

// Fail transitions the entry for id to failed with err.
func (c *Correlator) Fail(id int64, err error) {
	c.resolve(id, StateFailed, err)
}

// FailAll resolves every outstanding entry with err. Called on
// disconnection.
func (c *Correlator) FailAll(err error) {
	c.mu.Lock()
	for _, p := range c.table {
		if p.state == StatePending {
			c.finishLocked(p, StateFailed, err)
		}
	}
	c.mu.Unlock()
}

// Await blocks until the entry is complete, failed, or timeout elapses.
// The accumulated buffer is returned in all cases; err reports the
// terminal state. Await consumes the entry: a second call for the same
// handle returns ErrUnknownRequest.
func (c *Correlator) Await(ctx context.Context, h *Handle, timeout time.Duration) ([]any, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.done:
	case <-timer.C:
		c.resolve(h.id, StateTimedOut, ErrTimeout)
	case <-ctx.Done():
		c.resolve(h.id, StateFailed, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err()))
	}

	c.mu.Lock()
	p, ok := c.table[h.id]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrUnknownRequest, h.id)
	}
	delete(c.table, h.id)
	buf, err := p.buf, p.err
	c.mu.Unlock()
	return buf, err
}

// Outstanding returns the number of unresolved entries.
func (c *Correlator) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.table {
		if p.state == StatePending {
			n++
		}
	}
	return n
}

// Dropped returns the count of stray events discarded so far.
func (c *Correlator) Dropped() uint64 {
	return c.dropped.Load()
}

// resolve transitions the entry for id out of StatePending. Exactly one
// transition is accepted; later calls are no-ops.
func (c *Correlator) resolve(id int64, state State, err error) {
	c.mu.Lock()
	if p, ok := c.table[id]; ok && p.state == StatePending {
		c.finishLocked(p, state, err)
	}
	c.mu.Unlock()
}

func (c *Correlator) finishLocked(p *pending, state State, err error) {
	p.state = state
	p.err = err
	if p.window != nil {
		p.window.Stop()
	}
	close(p.done)
}
