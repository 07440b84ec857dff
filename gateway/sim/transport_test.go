package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantroute/ibtrader/gateway"
	"github.com/quantroute/ibtrader/market"
)

func testBook() Book {
	return Book{
		Quotes: map[string]map[market.TickType]float64{
			"AAPL": {market.TickClose: 187.2, market.TickLast: 187.4},
		},
		Bars: map[string][]market.Bar{
			"AAPL": {
				{Time: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), Close: 185.0},
				{Time: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Close: 187.2},
			},
		},
		Reject: map[string]bool{"BADCO": true},
	}
}

func connect(t *testing.T, book Book) *gateway.Session {
	t.Helper()
	s, err := gateway.Connect(context.Background(), New(book), "sim", 0, 1)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSimQuoteTerminates(t *testing.T) {
	t.Parallel()

	s := connect(t, testBook())
	in, err := market.NewInstrument("AAPL", market.Equity, "USD", "SMART")
	require.NoError(t, err)

	h, err := s.SubmitMarketDataRequest(in, []market.TickType{market.TickClose}, time.Second)
	require.NoError(t, err)

	buf, err := s.AwaitTimeout(context.Background(), h, 2*time.Second)
	require.NoError(t, err)

	q := gateway.CollectQuote("AAPL", buf)
	price, ok := q.Price(market.TickClose)
	require.True(t, ok)
	assert.Equal(t, 187.2, price)
}

func TestSimSilentSymbolTimesOut(t *testing.T) {
	t.Parallel()

	book := testBook()
	book.Silent = map[string]bool{"GHOST": true}
	s := connect(t, book)

	in, err := market.NewInstrument("GHOST", market.Equity, "USD", "SMART")
	require.NoError(t, err)

	// Window larger than the await timeout so the timeout path wins.
	h, err := s.SubmitMarketDataRequest(in, nil, time.Minute)
	require.NoError(t, err)

	_, err = s.AwaitTimeout(context.Background(), h, 100*time.Millisecond)
	assert.ErrorIs(t, err, gateway.ErrTimeout)
}

func TestSimHistoricalOrder(t *testing.T) {
	t.Parallel()

	s := connect(t, testBook())
	in, err := market.NewInstrument("AAPL", market.Equity, "USD", "SMART")
	require.NoError(t, err)

	h, err := s.SubmitHistoricalDataRequest(in, gateway.HistoricalRequest{})
	require.NoError(t, err)

	buf, err := s.AwaitTimeout(context.Background(), h, 2*time.Second)
	require.NoError(t, err)

	bars := gateway.CollectBars(buf)
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestSimOrderLifecycle(t *testing.T) {
	t.Parallel()

	s := connect(t, testBook())
	in, err := market.NewInstrument("AAPL", market.Equity, "USD", "SMART")
	require.NoError(t, err)

	h, err := s.SubmitOrder(in, gateway.OrderIntent{Symbol: "AAPL", Quantity: 10})
	require.NoError(t, err)

	buf, err := s.AwaitTimeout(context.Background(), h, 2*time.Second)
	require.NoError(t, err)

	st, ok := gateway.LastOrderStatus(buf)
	require.True(t, ok)
	assert.Equal(t, gateway.OrderFilled, st.Status)
	assert.Equal(t, 10.0, st.Filled)
	assert.Equal(t, 187.4, st.AvgFillPrice)
}

func TestSimOrderRejected(t *testing.T) {
	t.Parallel()

	s := connect(t, testBook())
	in, err := market.NewInstrument("BADCO", market.Equity, "USD", "SMART")
	require.NoError(t, err)

	h, err := s.SubmitOrder(in, gateway.OrderIntent{Symbol: "BADCO", Quantity: -4})
	require.NoError(t, err)

	buf, err := s.AwaitTimeout(context.Background(), h, 2*time.Second)
	require.NoError(t, err)

	st, ok := gateway.LastOrderStatus(buf)
	require.True(t, ok)
	assert.Equal(t, gateway.OrderRejected, st.Status)
}
