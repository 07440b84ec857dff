package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantroute/ibtrader/gateway/sim"
	"github.com/quantroute/ibtrader/market"
	"github.com/quantroute/ibtrader/portfolio"
)

var (
	historyDuration string
	historyBarSize  string
)

var historyCmd = &cobra.Command{
	Use:   "history SYMBOL [SYMBOL...]",
	Short: "Fetch historical bars for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDuration, "duration", "1 M", "lookback duration, e.g. '1 Y'")
	historyCmd.Flags().StringVar(&historyBarSize, "bar-size", "1 day", "bar size, e.g. '1 day'")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := connect(cmd.Context(), cfg, sim.New(demoBook(cfg.Account.ID, args)))
	if err != nil {
		return err
	}
	defer s.Close()

	reg := market.NewEquityRegistry()
	for _, symbol := range args {
		if _, err := reg.AddSymbol(symbol, "", ""); err != nil {
			return err
		}
	}

	pf, err := portfolio.New(s, reg, cfg.Account.NAV)
	if err != nil {
		return err
	}

	series, err := pf.HistoricalSeries(cmd.Context(), historyDuration, historyBarSize)
	var partial *portfolio.PartialSeriesError
	if err != nil && !errors.As(err, &partial) {
		return err
	}

	for _, symbol := range reg.Symbols() {
		bars, ok := series[symbol]
		if !ok {
			continue
		}
		fmt.Printf("%s (%d bars)\n", symbol, len(bars))
		for _, bar := range bars {
			fmt.Printf("  %s  o=%.2f h=%.2f l=%.2f c=%.2f v=%.0f\n",
				bar.Time.Format("2006-01-02"), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		}
	}
	if partial != nil {
		fmt.Printf("no series for: %v\n", partial.Failed)
	}
	return nil
}
