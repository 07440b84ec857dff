package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/quantroute/ibtrader/config"
	"github.com/quantroute/ibtrader/gateway/sim"
	"github.com/quantroute/ibtrader/journal"
	"github.com/quantroute/ibtrader/market"
	"github.com/quantroute/ibtrader/portfolio"
)

var (
	rebalanceTargets string
	rebalanceNAV     float64
	rebalanceDryRun  bool
)

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Convert target weights into orders and submit them",
	Long: `Rebalance reads a target-weights file, values the account's current
holdings at live quotes, computes the share deltas needed to reach the
targets, and submits one market order per symbol.

The weights file is YAML mapping symbol to target weight:

  AAPL: 0.4
  MSFT: 0.35
  VTI:  0.25

Weights must be non-negative and sum to at most 1.`,
	RunE: runRebalance,
}

func init() {
	rebalanceCmd.Flags().StringVar(&rebalanceTargets, "targets", "", "YAML file of target weights (required)")
	rebalanceCmd.Flags().Float64Var(&rebalanceNAV, "nav", 0, "net asset value override")
	rebalanceCmd.Flags().BoolVar(&rebalanceDryRun, "dry-run", false, "compute orders but do not submit")
	_ = rebalanceCmd.MarkFlagRequired("targets")
	rootCmd.AddCommand(rebalanceCmd)
}

func loadTargets(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	targets := make(map[string]float64)
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse targets file: %w", err)
	}
	sum := 0.0
	for symbol, w := range targets {
		if w < 0 {
			return nil, fmt.Errorf("target weight for %q is negative", symbol)
		}
		sum += w
	}
	if sum > 1+1e-9 {
		return nil, fmt.Errorf("target weights sum to %.4f, must be <= 1", sum)
	}
	return targets, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.OrdersFile)
	default:
		return nil, nil
	}
}

func runRebalance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	targets, err := loadTargets(rebalanceTargets)
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(targets))
	for symbol := range targets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	s, err := connect(cmd.Context(), cfg, sim.New(demoBook(cfg.Account.ID, symbols)))
	if err != nil {
		return err
	}
	defer s.Close()

	account, err := portfolio.NewAccount(cfg.Account.ID, s)
	if err != nil {
		return err
	}
	if _, err := account.RefreshPositions(cmd.Context()); err != nil {
		return err
	}

	nav := cfg.Account.NAV
	if rebalanceNAV > 0 {
		nav = rebalanceNAV
	}
	pf, err := account.EquityPortfolio(nav)
	if err != nil {
		return err
	}
	if w, err := cfg.Quotes.ParseSnapshotWindow(); err == nil && w > 0 {
		pf.SetSnapshotWindow(w)
	}

	tick := market.TickType(cfg.Quotes.TickType)
	current, err := account.EquityWeights(cmd.Context(), pf, tick)
	if err != nil {
		return err
	}

	quotes, err := pf.Quotes(cmd.Context(), tick)
	var partial *portfolio.PartialQuoteError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	if partial != nil {
		return fmt.Errorf("refusing to rebalance on partial quotes: %w", partial)
	}

	quantities, err := pf.OrderQuantities(current, targets, quotes)
	if err != nil {
		return err
	}
	orders := pf.BuildOrders(quantities)
	if len(orders) == 0 {
		fmt.Println("portfolio already at target weights")
		return nil
	}

	fmt.Printf("%-8s %8s %8s\n", "symbol", "side", "qty")
	for symbol, intent := range orders {
		fmt.Printf("%-8s %8s %8d\n", symbol, intent.Side(), intent.AbsQuantity())
	}
	if rebalanceDryRun {
		return nil
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	submittedAt := time.Now().UTC()
	results := pf.SubmitAll(cmd.Context(), orders)

	failed := 0
	for symbol, res := range results {
		status := string(res.Status)
		note := ""
		if res.Err != nil {
			failed++
			note = res.Err.Error()
			if status == "" {
				status = "Failed"
			}
		}
		fmt.Printf("%-8s order %d: %s", symbol, res.OrderID, status)
		if res.Filled > 0 {
			fmt.Printf(" filled=%.0f @ %.2f", res.Filled, res.AvgFillPrice)
		}
		fmt.Println()

		if j != nil {
			intent := orders[symbol]
			rec := journal.OrderRecord{
				OrderID:      res.OrderID,
				Account:      account.ID(),
				Symbol:       symbol,
				Side:         string(intent.Side()),
				Quantity:     intent.Quantity,
				OrderType:    string(intent.Type),
				Status:       status,
				Filled:       res.Filled,
				AvgFillPrice: res.AvgFillPrice,
				SubmittedAt:  submittedAt,
				ResolvedAt:   time.Now().UTC(),
				Note:         note,
			}
			if err := j.RecordOrder(rec); err != nil {
				return fmt.Errorf("journal order for %s: %w", symbol, err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d orders failed", failed, len(results))
	}
	return nil
}
