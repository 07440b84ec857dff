package market

import "errors"

var (
	// ErrInvalidSymbol is returned for blank or whitespace-only symbols.
	ErrInvalidSymbol = errors.New("market: invalid symbol")

	// ErrTypeMismatch is returned when an instrument's security type does
	// not match the registry's declared asset class.
	ErrTypeMismatch = errors.New("market: security type mismatch")

	// ErrNotFound is returned when a symbol is absent from a registry or
	// snapshot.
	ErrNotFound = errors.New("market: symbol not found")
)
