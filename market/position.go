package market

// Position is an account's current holding of one instrument. Quantity is
// signed; short positions are negative.
type Position struct {
	Account    string
	Instrument Instrument
	Quantity   float64
	AvgCost    float64
}

// PositionSnapshot maps instrument symbol to position. A snapshot is
// replaced in full on each successful positions request, never merged.
type PositionSnapshot map[string]Position

// Clone returns a shallow copy of the snapshot.
func (ps PositionSnapshot) Clone() PositionSnapshot {
	out := make(PositionSnapshot, len(ps))
	for k, v := range ps {
		out[k] = v
	}
	return out
}
