package market

import "fmt"

// Registry is a keyed set of instruments for one asset class. Every member's
// security type matches the registry's declared class; symbols are unique.
// Iteration order is insertion order and deterministic for a given state.
//
// A Registry is not safe for concurrent mutation; callers that share one
// across goroutines are expected to have a single writer.
type Registry struct {
	secType  SecurityType
	currency string
	exchange string
	order    []string
	bySymbol map[string]Instrument
}

// NewEquityRegistry returns an empty registry for STK instruments with
// SMART routing and USD as the default currency.
func NewEquityRegistry() *Registry {
	return NewRegistry(Equity, "USD", "SMART")
}

// NewFXRegistry returns an empty registry for CASH instruments routed to
// IDEALPRO with USD as the default currency.
func NewFXRegistry() *Registry {
	return NewRegistry(Cash, "USD", "IDEALPRO")
}

// NewRegistry returns an empty registry for the given asset class.
// currency and exchange are the defaults applied by AddSymbol.
func NewRegistry(secType SecurityType, currency, exchange string) *Registry {
	return &Registry{
		secType:  secType,
		currency: currency,
		exchange: exchange,
		bySymbol: make(map[string]Instrument),
	}
}

// NewRegistryFrom builds a registry from an initial instrument list. Every
// instrument is validated against the declared class; on the first failure
// nothing is kept.
func NewRegistryFrom(secType SecurityType, currency, exchange string, instruments []Instrument) (*Registry, error) {
	r := NewRegistry(secType, currency, exchange)
	for _, in := range instruments {
		if err := r.Add(in); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SecType returns the registry's declared asset class.
func (r *Registry) SecType() SecurityType { return r.secType }

// Len returns the number of instruments held.
func (r *Registry) Len() int { return len(r.order) }

// AddSymbol constructs an instrument with the registry's security type and
// adds it. Empty currency or exchange fall back to the registry defaults.
func (r *Registry) AddSymbol(symbol, currency, exchange string) (Instrument, error) {
	if currency == "" {
		currency = r.currency
	}
	if exchange == "" {
		exchange = r.exchange
	}
	in, err := NewInstrument(symbol, r.secType, currency, exchange)
	if err != nil {
		return Instrument{}, err
	}
	if err := r.Add(in); err != nil {
		return Instrument{}, err
	}
	return in, nil
}

// Add inserts an instrument, rejecting any whose security type does not
// match the registry's class. Re-adding a known symbol replaces the entry
// in place and keeps its iteration position.
func (r *Registry) Add(in Instrument) error {
	if in.SecType != r.secType {
		return fmt.Errorf("%w: registry holds %s, got %s for %q",
			ErrTypeMismatch, r.secType, in.SecType, in.Symbol)
	}
	if _, ok := r.bySymbol[in.Symbol]; !ok {
		r.order = append(r.order, in.Symbol)
	}
	r.bySymbol[in.Symbol] = in
	return nil
}

// Remove deletes the instrument for symbol.
func (r *Registry) Remove(symbol string) error {
	if _, ok := r.bySymbol[symbol]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, symbol)
	}
	delete(r.bySymbol, symbol)
	for i, s := range r.order {
		if s == symbol {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the instrument for symbol.
func (r *Registry) Get(symbol string) (Instrument, error) {
	in, ok := r.bySymbol[symbol]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrNotFound, symbol)
	}
	return in, nil
}

// Symbols returns the held symbols in insertion order. The returned slice
// is a copy.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Instruments returns the held instruments in insertion order.
func (r *Registry) Instruments() []Instrument {
	out := make([]Instrument, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, r.bySymbol[s])
	}
	return out
}
