package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantroute/ibtrader/gateway/sim"
	"github.com/quantroute/ibtrader/market"
	"github.com/quantroute/ibtrader/portfolio"
)

var quotesTickType string

var quotesCmd = &cobra.Command{
	Use:   "quotes SYMBOL [SYMBOL...]",
	Short: "Fetch live quotes for one or more symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuotes,
}

func init() {
	quotesCmd.Flags().StringVar(&quotesTickType, "tick", "", "tick type (BID, ASK, LAST, CLOSE)")
	rootCmd.AddCommand(quotesCmd)
}

func runQuotes(cmd *cobra.Command, args []string) error {
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
	if w, err := cfg.Quotes.ParseSnapshotWindow(); err == nil && w > 0 {
		pf.SetSnapshotWindow(w)
	}

	tick := market.TickType(quotesTickType)
	if tick == "" {
		tick = market.TickType(cfg.Quotes.TickType)
	}

	quotes, err := pf.Quotes(cmd.Context(), tick)
	var partial *portfolio.PartialQuoteError
	if err != nil && !errors.As(err, &partial) {
		return err
	}

	for _, symbol := range reg.Symbols() {
		if price, ok := quotes[symbol]; ok {
			fmt.Printf("%-8s %10.2f\n", symbol, price)
		}
	}
	if partial != nil {
		fmt.Printf("no quote for: %v\n", partial.Missing)
	}
	return nil
}
