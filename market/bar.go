package market

import "time"

// Bar is one OHLCV row of a historical series.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSeries is a time-ordered bar sequence for one instrument.
type BarSeries struct {
	Symbol string
	Bars   []Bar
}
