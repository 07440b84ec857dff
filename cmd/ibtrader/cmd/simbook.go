package cmd

import (
	"hash/fnv"
	"time"

	"github.com/quantroute/ibtrader/gateway/sim"
	"github.com/quantroute/ibtrader/market"
)

// demoPrice derives a stable per-symbol price so the simulated gateway
// answers consistently across runs.
func demoPrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 20 + float64(h.Sum32()%4800)/10
}

// demoBook seeds the simulated gateway with quotes, bars and holdings for
// the given symbols.
func demoBook(account string, symbols []string) sim.Book {
	book := sim.Book{
		Quotes: make(map[string]map[market.TickType]float64),
		Bars:   make(map[string][]market.Bar),
	}
	for i, symbol := range symbols {
		price := demoPrice(symbol)
		book.Quotes[symbol] = map[market.TickType]float64{
			market.TickBid:   price - 0.05,
			market.TickAsk:   price + 0.05,
			market.TickLast:  price,
			market.TickClose: price,
		}

		bars := make([]market.Bar, 0, 30)
		day := time.Now().UTC().AddDate(0, 0, -30).Truncate(24 * time.Hour)
		p := price * 0.9
		for d := 0; d < 30; d++ {
			p *= 1 + 0.004*float64(d%5-2)
			bars = append(bars, market.Bar{
				Time:   day.AddDate(0, 0, d),
				Open:   p * 0.999,
				High:   p * 1.004,
				Low:    p * 0.995,
				Close:  p,
				Volume: float64(100000 + 1000*d),
			})
		}
		book.Bars[symbol] = bars

		in, err := market.NewInstrument(symbol, market.Equity, "USD", "SMART")
		if err != nil {
			continue
		}
		qty := 100.0
		if i == 0 {
			qty = 400
		}
		book.Positions = append(book.Positions, market.Position{
			Account:    account,
			Instrument: in,
			Quantity:   qty,
			AvgCost:    price * 0.95,
		})
	}
	return book
}
