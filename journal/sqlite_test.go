package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(symbol string, orderID int64) OrderRecord {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	return OrderRecord{
		OrderID:      orderID,
		Account:      "DU100",
		Symbol:       symbol,
		Side:         "BUY",
		Quantity:     30,
		OrderType:    "MKT",
		Status:       "Filled",
		Filled:       30,
		AvgFillPrice: 187.4,
		SubmittedAt:  now,
		ResolvedAt:   now.Add(200 * time.Millisecond),
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordOrder(testRecord("AAPL", 1)))
	require.NoError(t, j.RecordOrder(testRecord("MSFT", 2)))
	require.NoError(t, j.RecordOrder(testRecord("AAPL", 3)))

	all, err := j.ListOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].OrderID)
	assert.Equal(t, int64(3), all[2].OrderID)
	assert.NotEmpty(t, all[0].ID)

	aapl, err := j.ListOrders(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, aapl, 2)
	assert.Equal(t, "AAPL", aapl[0].Symbol)
	assert.Equal(t, 187.4, aapl[0].AvgFillPrice)
}

func TestNewIDMonotonic(t *testing.T) {
	t.Parallel()

	prev := NewID()
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Greater(t, id, prev)
		prev = id
	}
}
