package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quantroute/ibtrader/gateway/sim"
	"github.com/quantroute/ibtrader/portfolio"
)

var positionsSymbols []string

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Show the account's current positions",
	RunE:  runPositions,
}

func init() {
	positionsCmd.Flags().StringSliceVar(&positionsSymbols, "symbols", []string{"AAPL", "MSFT", "VTI"}, "symbols held in the simulated account")
	rootCmd.AddCommand(positionsCmd)
}

func runPositions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := connect(cmd.Context(), cfg, sim.New(demoBook(cfg.Account.ID, positionsSymbols)))
	if err != nil {
		return err
	}
	defer s.Close()

	account, err := portfolio.NewAccount(cfg.Account.ID, s)
	if err != nil {
		return err
	}

	snapshot, err := account.RefreshPositions(cmd.Context())
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(snapshot))
	for symbol := range snapshot {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	fmt.Printf("%-8s %12s %12s\n", "symbol", "quantity", "avg cost")
	for _, symbol := range symbols {
		pos := snapshot[symbol]
		fmt.Printf("%-8s %12.0f %12.2f\n", symbol, pos.Quantity, pos.AvgCost)
	}
	return nil
}
