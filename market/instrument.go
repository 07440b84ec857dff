package market

import (
	"fmt"
	"strings"
)

// SecurityType is the IB security type code for an instrument.
type SecurityType string

const (
	Equity SecurityType = "STK"
	Cash   SecurityType = "CASH"
)

// Instrument identifies a tradable security. Instruments are plain values
// and immutable once created.
type Instrument struct {
	Symbol   string
	SecType  SecurityType
	Currency string
	Exchange string
}

// NewInstrument validates the symbol and returns an Instrument. Blank or
// whitespace-only symbols are rejected with ErrInvalidSymbol.
func NewInstrument(symbol string, secType SecurityType, currency, exchange string) (Instrument, error) {
	if strings.TrimSpace(symbol) == "" {
		return Instrument{}, fmt.Errorf("%w: symbol must be non-empty", ErrInvalidSymbol)
	}
	return Instrument{
		Symbol:   symbol,
		SecType:  secType,
		Currency: currency,
		Exchange: exchange,
	}, nil
}

func (in Instrument) String() string {
	return fmt.Sprintf("%s %s@%s (%s)", in.SecType, in.Symbol, in.Exchange, in.Currency)
}
