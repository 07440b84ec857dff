package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitUnblocksOnTerminalEvent(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(1, KindHistorical)

	go func() {
		c.OnEvent(1, BarEvent{}, false)
		c.OnEvent(1, BarEvent{}, false)
		c.OnEvent(1, nil, true)
	}()

	buf, err := c.Await(context.Background(), h, time.Second)
	require.NoError(t, err)
	assert.Len(t, buf, 2)
}

func TestEventsAfterCompletionAreDropped(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(7, KindHistorical)
	c.OnEvent(7, BarEvent{}, true)

	buf, err := c.Await(context.Background(), h, time.Second)
	require.NoError(t, err)
	require.Len(t, buf, 1)

	// Late deliveries for a consumed id are counted, never raised.
	c.OnEvent(7, BarEvent{}, false)
	c.OnEvent(7, nil, true)
	assert.Equal(t, uint64(2), c.Dropped())
}

func TestStrayEventForUnknownID(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	assert.NotPanics(t, func() { c.OnEvent(99, TickEvent{}, true) })
	assert.Equal(t, uint64(1), c.Dropped())
}

func TestAwaitTimeoutBounds(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(3, KindPositions)

	const timeout = 100 * time.Millisecond
	start := time.Now()
	buf, err := c.Await(context.Background(), h, timeout)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Empty(t, buf)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+500*time.Millisecond)
}

func TestTimeoutReturnsPartialBuffer(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(4, KindHistorical)
	c.OnEvent(4, BarEvent{}, false)

	buf, err := c.Await(context.Background(), h, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Len(t, buf, 1)
}

func TestCancelWakesPendingAwait(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(5, KindQuote)

	done := make(chan error, 1)
	go func() {
		_, err := c.Await(context.Background(), h, 10*time.Second)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	c.Cancel(h)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("await did not observe cancellation promptly")
	}
}

func TestContextCancellationWakesAwait(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(6, KindQuote)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.Await(ctx, h, 10*time.Second)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSnapshotWindowCompletesWithBufferedTicks(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.RegisterSnapshot(8, 50*time.Millisecond)
	c.OnEvent(8, TickEvent{Type: "CLOSE", Price: 101.5}, false)

	// No terminal event ever arrives; the window resolves the entry.
	buf, err := c.Await(context.Background(), h, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, buf, 1)
	assert.Equal(t, 101.5, buf[0].(TickEvent).Price)
}

func TestFailAllResolvesEveryPending(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	handles := []*Handle{
		c.Register(10, KindQuote),
		c.Register(11, KindHistorical),
		c.Register(12, KindOrder),
	}

	c.FailAll(ErrDisconnected)

	for _, h := range handles {
		_, err := c.Await(context.Background(), h, time.Second)
		assert.ErrorIs(t, err, ErrDisconnected)
	}
	assert.Zero(t, c.Outstanding())
}

func TestAwaitConsumesEntry(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	h := c.Register(13, KindPositions)
	c.OnEvent(13, nil, true)

	_, err := c.Await(context.Background(), h, time.Second)
	require.NoError(t, err)

	_, err = c.Await(context.Background(), h, time.Second)
	assert.ErrorIs(t, err, ErrUnknownRequest)
}

func TestConcurrentRequestsAreIsolated(t *testing.T) {
	t.Parallel()

	c := NewCorrelator()
	const n = 50

	var wg sync.WaitGroup
	results := make([]int, n)
	for i := 0; i < n; i++ {
		i := i
		id := int64(i + 1)
		h := c.Register(id, KindHistorical)
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := c.Await(context.Background(), h, 5*time.Second)
			if err == nil {
				results[i] = len(buf)
			}
		}()
	}

	// Deliver i+1 rows to request i, interleaved across ids.
	var dwg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		dwg.Add(1)
		go func() {
			defer dwg.Done()
			id := int64(i + 1)
			for j := 0; j <= i; j++ {
				c.OnEvent(id, BarEvent{}, false)
			}
			c.OnEvent(id, nil, true)
		}()
	}
	dwg.Wait()
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, i+1, results[i], "request %d buffer clobbered", i+1)
	}
}
