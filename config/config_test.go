package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backsim/book"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "backtest.yaml")
	doc := `
account:
  id: ACC-42
  initial_capital: 50000
backtest:
  start: "2024-01-02"
  end: "2024-03-29"
  symbols: [AAPL, MSFT]
  bar_files: [./bars.csv]
  commission: 2.5
strategy:
  type: ma_crossover
  short_period: 10
  long_period: 30
  position_size: 50
  stop_loss:
    price_threshold: 45
journal:
  type: sqlite
  db_path: ./runs.db
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ACC-42", cfg.Account.ID)
	assert.Equal(t, 50000.0, cfg.Account.InitialCapital)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Backtest.Symbols)
	assert.Equal(t, 2.5, cfg.Backtest.Commission)

	start, err := cfg.StartTime()
	require.NoError(t, err)
	assert.Equal(t, 2024, start.Year())

	p := cfg.Params()
	assert.Equal(t, 10, p.ShortPeriod)
	assert.Equal(t, 30, p.LongPeriod)
	assert.Equal(t, 50, p.PositionSize)
	assert.Equal(t, book.StopPrice, p.Stop.Kind)
	assert.Equal(t, 45.0, p.Stop.Threshold)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "backtest.json")
	doc := `{
  "account": {"id": "ACC-1", "initial_capital": 100000},
  "backtest": {
    "start": "2024-01-02", "end": "2024-01-31",
    "symbols": ["AAPL"], "bar_files": ["./bars.csv"]
  },
  "strategy": {"type": "noop"},
  "journal": {"type": "none"}
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "noop", cfg.Strategy.Type)
	assert.Equal(t, book.StopNone, cfg.Stop().Kind)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing account id", func(c *Config) { c.Account.ID = "" }},
		{"zero capital", func(c *Config) { c.Account.InitialCapital = 0 }},
		{"bad start date", func(c *Config) { c.Backtest.Start = "01/02/2024" }},
		{"end before start", func(c *Config) { c.Backtest.End = "2023-12-01" }},
		{"no symbols", func(c *Config) { c.Backtest.Symbols = nil }},
		{"no bar files", func(c *Config) { c.Backtest.BarFiles = nil }},
		{"negative commission", func(c *Config) { c.Backtest.Commission = -1 }},
		{"unknown strategy", func(c *Config) { c.Strategy.Type = "teleport" }},
		{"both stop rules", func(c *Config) {
			c.Strategy.StopLoss = StopLossConfig{PriceThreshold: 45, DaysToHold: 10}
		}},
		{"csv without paths", func(c *Config) {
			c.Journal = JournalConfig{Type: "csv"}
		}},
		{"sqlite without path", func(c *Config) {
			c.Journal = JournalConfig{Type: "sqlite"}
		}},
		{"unknown journal type", func(c *Config) {
			c.Journal = JournalConfig{Type: "carrier-pigeon"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile("/does/not/exist.yaml")
	assert.Error(t, err)
}
