package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSymbolRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewEquityRegistry()
	in, err := r.AddSymbol("AAPL", "", "")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", in.Symbol)
	assert.Equal(t, Equity, in.SecType)
	assert.Equal(t, "USD", in.Currency)
	assert.Equal(t, "SMART", in.Exchange)

	got, err := r.Get("AAPL")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestAddSymbolBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"tab", "\t"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewEquityRegistry()
			_, err := r.AddSymbol(tt.symbol, "", "")
			assert.ErrorIs(t, err, ErrInvalidSymbol)
			assert.Zero(t, r.Len())
		})
	}
}

func TestAddTypeMismatchLeavesRegistryUnchanged(t *testing.T) {
	t.Parallel()

	r := NewEquityRegistry()
	_, err := r.AddSymbol("MSFT", "", "")
	require.NoError(t, err)

	fx, err := NewInstrument("EURUSD", Cash, "USD", "IDEALPRO")
	require.NoError(t, err)

	err = r.Add(fx)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, []string{"MSFT"}, r.Symbols())
}

func TestFXRegistryDefaults(t *testing.T) {
	t.Parallel()

	r := NewFXRegistry()
	in, err := r.AddSymbol("EUR", "", "")
	require.NoError(t, err)
	assert.Equal(t, Cash, in.SecType)
	assert.Equal(t, "IDEALPRO", in.Exchange)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	r := NewEquityRegistry()
	for _, s := range []string{"AAPL", "MSFT", "GOOG"} {
		_, err := r.AddSymbol(s, "", "")
		require.NoError(t, err)
	}

	require.NoError(t, r.Remove("MSFT"))
	assert.Equal(t, []string{"AAPL", "GOOG"}, r.Symbols())

	err := r.Remove("MSFT")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Get("MSFT")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSymbolsInsertionOrder(t *testing.T) {
	t.Parallel()

	r := NewEquityRegistry()
	want := []string{"ZZZ", "AAA", "MMM"}
	for _, s := range want {
		_, err := r.AddSymbol(s, "", "")
		require.NoError(t, err)
	}
	assert.Equal(t, want, r.Symbols())

	// Re-adding keeps the original position.
	_, err := r.AddSymbol("ZZZ", "EUR", "")
	require.NoError(t, err)
	assert.Equal(t, want, r.Symbols())

	got, err := r.Get("ZZZ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
}

func TestNewRegistryFromValidates(t *testing.T) {
	t.Parallel()

	stk, err := NewInstrument("AAPL", Equity, "USD", "SMART")
	require.NoError(t, err)
	fx, err := NewInstrument("EUR", Cash, "USD", "IDEALPRO")
	require.NoError(t, err)

	_, err = NewRegistryFrom(Equity, "USD", "SMART", []Instrument{stk, fx})
	assert.ErrorIs(t, err, ErrTypeMismatch)

	r, err := NewRegistryFrom(Equity, "USD", "SMART", []Instrument{stk})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
