// Package config loads and validates backtest run configuration from
// YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/strategies"
)

const dateLayout = "2006-01-02"

// Config represents a complete backtest run configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig seeds the simulated account.
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// BacktestConfig sets the simulation window and data universe.
type BacktestConfig struct {
	Start      string   `json:"start" yaml:"start"` // 2006-01-02
	End        string   `json:"end" yaml:"end"`
	Symbols    []string `json:"symbols" yaml:"symbols"`
	BarFiles   []string `json:"bar_files" yaml:"bar_files"`
	Commission float64  `json:"commission,omitempty" yaml:"commission,omitempty"`
}

// StrategyConfig selects and parameterizes the strategy.
type StrategyConfig struct {
	Type         string         `json:"type" yaml:"type"`
	ShortPeriod  int            `json:"short_period,omitempty" yaml:"short_period,omitempty"`
	LongPeriod   int            `json:"long_period,omitempty" yaml:"long_period,omitempty"`
	PositionSize int            `json:"position_size,omitempty" yaml:"position_size,omitempty"`
	StopLoss     StopLossConfig `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
}

// StopLossConfig attaches a stop rule to every position the strategy
// opens. At most one of the two fields may be set.
type StopLossConfig struct {
	PriceThreshold float64 `json:"price_threshold,omitempty" yaml:"price_threshold,omitempty"`
	DaysToHold     int     `json:"days_to_hold,omitempty" yaml:"days_to_hold,omitempty"`
}

// JournalConfig selects where run output is persisted.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration, picking the format from the
// file extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration describes a runnable backtest.
func (c *Config) Validate() error {
	if c.Account.ID == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}

	start, err := c.StartTime()
	if err != nil {
		return fmt.Errorf("backtest.start: %w", err)
	}
	end, err := c.EndTime()
	if err != nil {
		return fmt.Errorf("backtest.end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("backtest.end before backtest.start")
	}
	if len(c.Backtest.Symbols) == 0 {
		return fmt.Errorf("backtest.symbols is required")
	}
	if len(c.Backtest.BarFiles) == 0 {
		return fmt.Errorf("backtest.bar_files is required")
	}
	if c.Backtest.Commission < 0 {
		return fmt.Errorf("backtest.commission must not be negative")
	}

	if _, err := strategies.StrategyByName(c.Strategy.Type, c.Params()); err != nil {
		return fmt.Errorf("strategy.type: %w", err)
	}
	if c.Strategy.StopLoss.PriceThreshold > 0 && c.Strategy.StopLoss.DaysToHold > 0 {
		return fmt.Errorf("strategy.stop_loss: price_threshold and days_to_hold are mutually exclusive")
	}
	if c.Strategy.StopLoss.PriceThreshold < 0 {
		return fmt.Errorf("strategy.stop_loss.price_threshold must not be negative")
	}
	if c.Strategy.StopLoss.DaysToHold < 0 {
		return fmt.Errorf("strategy.stop_loss.days_to_hold must not be negative")
	}

	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}

	return nil
}

// StartTime parses the backtest start date.
func (c *Config) StartTime() (time.Time, error) {
	return time.Parse(dateLayout, c.Backtest.Start)
}

// EndTime parses the backtest end date.
func (c *Config) EndTime() (time.Time, error) {
	return time.Parse(dateLayout, c.Backtest.End)
}

// Stop converts the stop-loss config into the position book's form.
func (c *Config) Stop() book.StopLoss {
	switch {
	case c.Strategy.StopLoss.PriceThreshold > 0:
		return book.StopLoss{Kind: book.StopPrice, Threshold: c.Strategy.StopLoss.PriceThreshold}
	case c.Strategy.StopLoss.DaysToHold > 0:
		return book.StopLoss{Kind: book.StopDays, Days: c.Strategy.StopLoss.DaysToHold}
	default:
		return book.StopLoss{}
	}
}

// Params converts the strategy section into strategy parameters.
func (c *Config) Params() strategies.Params {
	return strategies.Params{
		ShortPeriod:  c.Strategy.ShortPeriod,
		LongPeriod:   c.Strategy.LongPeriod,
		PositionSize: c.Strategy.PositionSize,
		Stop:         c.Stop(),
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "SIM-001",
			InitialCapital: 100000,
		},
		Backtest: BacktestConfig{
			Start:      "2024-01-02",
			End:        "2024-06-28",
			Symbols:    []string{"AAPL"},
			BarFiles:   []string{"./data/bars.csv"},
			Commission: 5,
		},
		Strategy: StrategyConfig{
			Type:         "ma_crossover",
			ShortPeriod:  20,
			LongPeriod:   50,
			PositionSize: 100,
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
	}
}
