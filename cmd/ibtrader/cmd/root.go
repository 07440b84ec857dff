package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantroute/ibtrader/config"
	"github.com/quantroute/ibtrader/gateway"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ibtrader",
	Short: "Interactive Brokers gateway client for quotes, positions and rebalancing",
	Long: `ibtrader talks to a TWS/IB Gateway session to fetch quotes, historical
bars and account positions, and to turn target portfolio weights into
market orders.

Commands run against the built-in simulated gateway unless a live
transport is wired in, so every workflow can be exercised without a
running TWS.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
		gateway.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads --config, or returns defaults when the flag is unset.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

// connect builds a session against the given transport using the config's
// endpoint and timeout settings.
func connect(ctx context.Context, cfg *config.Config, t gateway.Transport) (*gateway.Session, error) {
	s, err := gateway.Connect(ctx, t, cfg.Gateway.Host, cfg.Gateway.Port, cfg.Gateway.ClientID)
	if err != nil {
		return nil, err
	}
	if d, err := cfg.Gateway.ParseTimeout(); err == nil && d > 0 {
		s.SetTimeout(d)
	}
	return s, nil
}
