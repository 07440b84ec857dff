package portfolio

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantroute/ibtrader/gateway"
	"github.com/quantroute/ibtrader/market"
)

// Account tracks one broker account: its id and the last position
// snapshot fetched for it. Snapshots are replaced in full on refresh.
type Account struct {
	id        string
	session   *gateway.Session
	positions market.PositionSnapshot
}

// NewAccount validates the account id and returns an Account bound to the
// session.
func NewAccount(id string, s *gateway.Session) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("portfolio: account id must be non-empty")
	}
	return &Account{id: id, session: s, positions: make(market.PositionSnapshot)}, nil
}

// ID returns the account id.
func (a *Account) ID() string { return a.id }

// RefreshPositions requests a fresh position stream and replaces the
// snapshot with the rows belonging to this account.
func (a *Account) RefreshPositions(ctx context.Context) (market.PositionSnapshot, error) {
	h, err := a.session.SubmitPositionsRequest()
	if err != nil {
		return nil, err
	}
	buf, err := a.session.Await(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("refresh positions for %s: %w", a.id, err)
	}

	snapshot := make(market.PositionSnapshot)
	for _, pos := range gateway.CollectPositions(buf) {
		if pos.Account != "" && pos.Account != a.id {
			continue
		}
		snapshot[pos.Instrument.Symbol] = pos
	}
	a.positions = snapshot
	return snapshot.Clone(), nil
}

// Positions returns a copy of the last snapshot.
func (a *Account) Positions() market.PositionSnapshot {
	return a.positions.Clone()
}

// EquityRegistry builds an equity registry from the held STK positions.
func (a *Account) EquityRegistry() (*market.Registry, error) {
	reg := market.NewEquityRegistry()
	for _, pos := range a.positions {
		if pos.Instrument.SecType != market.Equity {
			continue
		}
		if err := reg.Add(pos.Instrument); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// EquityPortfolio builds a portfolio over the held equity instruments.
// nav is externally supplied; pass NaN if it is not yet known.
func (a *Account) EquityPortfolio(nav float64) (*Portfolio, error) {
	reg, err := a.EquityRegistry()
	if err != nil {
		return nil, err
	}
	return New(a.session, reg, nav)
}

// EquityQuantities returns the integer share count per symbol for the
// registry's instruments, truncated toward zero.
func (a *Account) EquityQuantities(reg *market.Registry) map[string]int64 {
	out := make(map[string]int64)
	for _, symbol := range reg.Symbols() {
		if pos, ok := a.positions[symbol]; ok {
			out[symbol] = int64(pos.Quantity)
		}
	}
	return out
}

// EquityWeights values every held equity at its live quote and returns
// normalized weights. It fails if any held symbol is missing a quote,
// since weights computed over a partial valuation would be wrong.
func (a *Account) EquityWeights(ctx context.Context, pf *Portfolio, tick market.TickType) (map[string]float64, error) {
	quotes, err := pf.Quotes(ctx, tick)
	if err != nil {
		return nil, fmt.Errorf("equity weights for %s: %w", a.id, err)
	}
	quantities := a.EquityQuantities(pf.Registry())

	total := 0.0
	values := make(map[string]float64, len(quantities))
	for symbol, qty := range quantities {
		v := quotes[symbol] * float64(qty)
		values[symbol] = v
		total += v
	}
	if total == 0 {
		return nil, fmt.Errorf("portfolio: account %s has no valued positions", a.id)
	}

	weights := make(map[string]float64, len(values))
	for symbol, v := range values {
		weights[symbol] = v / total
	}
	return weights, nil
}
