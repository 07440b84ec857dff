package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Account AccountConfig `json:"account" yaml:"account"`
	Quotes  QuotesConfig  `json:"quotes" yaml:"quotes"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// GatewayConfig locates the TWS/IB Gateway endpoint.
type GatewayConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	ClientID int    `json:"client_id" yaml:"client_id"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to a duration. Empty means no
// override.
func (g GatewayConfig) ParseTimeout() (time.Duration, error) {
	if g.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(g.Timeout)
}

// AccountConfig identifies the traded account and its externally supplied
// net asset value.
type AccountConfig struct {
	ID  string  `json:"id" yaml:"id"`
	NAV float64 `json:"nav" yaml:"nav"`
}

// QuotesConfig tunes quote requests.
type QuotesConfig struct {
	TickType       string `json:"tick_type,omitempty" yaml:"tick_type,omitempty"`
	SnapshotWindow string `json:"snapshot_window,omitempty" yaml:"snapshot_window,omitempty"`
}

func (q QuotesConfig) ParseSnapshotWindow() (time.Duration, error) {
	if q.SnapshotWindow == "" {
		return 0, nil
	}
	return time.ParseDuration(q.SnapshotWindow)
}

// JournalConfig selects the order journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite", or "none"
	OrdersFile string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file. A .env file
// in the working directory is read first so env overrides work without
// exporting.
func LoadFromFile(path string) (*Config, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays IB_HOST, IB_PORT, IB_CLIENT_ID and IB_ACCOUNT over
// the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("IB_HOST"); v != "" {
		c.Gateway.Host = v
	}
	if v := os.Getenv("IB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Gateway.Port = port
		}
	}
	if v := os.Getenv("IB_CLIENT_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.Gateway.ClientID = id
		}
	}
	if v := os.Getenv("IB_ACCOUNT"); v != "" {
		c.Account.ID = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Gateway.Host == "" {
		return fmt.Errorf("gateway.host is required")
	}
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port must be in 1..65535")
	}
	if c.Gateway.ClientID < 0 {
		return fmt.Errorf("gateway.client_id must be non-negative")
	}
	if _, err := c.Gateway.ParseTimeout(); err != nil {
		return fmt.Errorf("gateway.timeout: %w", err)
	}
	if _, err := c.Quotes.ParseSnapshotWindow(); err != nil {
		return fmt.Errorf("quotes.snapshot_window: %w", err)
	}
	if c.Account.NAV < 0 {
		return fmt.Errorf("account.nav must be non-negative")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.OrdersFile == "" {
			return fmt.Errorf("journal.orders_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration pointing at a paper TWS on localhost.
func Default() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host:     "127.0.0.1",
			Port:     7497,
			ClientID: 1,
			Timeout:  "30s",
		},
		Account: AccountConfig{
			ID:  "DU000000",
			NAV: 0,
		},
		Quotes: QuotesConfig{
			TickType:       "CLOSE",
			SnapshotWindow: "500ms",
		},
		Journal: JournalConfig{
			Type:       "csv",
			OrdersFile: "./orders.csv",
		},
	}
}
