package portfolio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingQuote is returned when a required symbol has no quote.
	ErrMissingQuote = errors.New("portfolio: missing quote")

	// ErrDivisionByZero is returned when a quote used as a divisor is zero.
	ErrDivisionByZero = errors.New("portfolio: quote is zero")

	// ErrNAVUnset is returned when an operation needs the portfolio NAV
	// and none has been supplied.
	ErrNAVUnset = errors.New("portfolio: nav unset")
)

// PartialQuoteError reports the symbols a bulk quote operation could not
// resolve. Quotes obtained for the other symbols are still returned.
type PartialQuoteError struct {
	Missing []string
}

func (e *PartialQuoteError) Error() string {
	sort.Strings(e.Missing)
	return fmt.Sprintf("portfolio: no quote for %s", strings.Join(e.Missing, ", "))
}

// PartialSeriesError reports per-instrument failures of a historical
// series fetch. Series obtained for the other symbols are still returned.
type PartialSeriesError struct {
	Failed map[string]error
}

func (e *PartialSeriesError) Error() string {
	symbols := make([]string, 0, len(e.Failed))
	for s := range e.Failed {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return fmt.Sprintf("portfolio: no bar series for %s", strings.Join(symbols, ", "))
}
