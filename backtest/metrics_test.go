package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backsim/sim"
)

func eq(vals ...float64) []DailySnapshot {
	snaps := make([]DailySnapshot, len(vals))
	for i, v := range vals {
		snaps[i] = DailySnapshot{TotalEquity: v}
	}
	return snaps
}

func TestTotalReturn(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0099, TotalReturn(100000, 100990), 1e-9)
	assert.InDelta(t, -0.25, TotalReturn(100000, 75000), 1e-9)
	assert.Equal(t, 0.0, TotalReturn(0, 100))
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		snaps []DailySnapshot
		want  float64
	}{
		{"monotonic rise", eq(100, 110, 120), 0},
		{"single dip", eq(100, 120, 90, 130), 0.25},
		{"deepest of two", eq(100, 80, 100, 95), 0.20},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.snaps), 1e-9)
		})
	}
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()

	// Flat curve: zero stdev, defined as zero.
	assert.Equal(t, 0.0, SharpeRatio(eq(100, 100, 100)))

	// Too few points.
	assert.Equal(t, 0.0, SharpeRatio(eq(100)))
	assert.Equal(t, 0.0, SharpeRatio(nil))

	// Mostly falling curve: mean daily return is negative, so is Sharpe.
	s := SharpeRatio(eq(100, 90, 99, 89.1))
	assert.Less(t, s, 0.0)

	// Hand-computed: returns {0.10, 0.05}; mean 0.075, sample stdev
	// sqrt((0.025^2 + 0.025^2) / 1).
	got := SharpeRatio(eq(100, 110, 115.5))
	mean := 0.075
	stdev := math.Sqrt(2 * 0.025 * 0.025)
	assert.InDelta(t, mean/stdev*math.Sqrt(252), got, 1e-9)
}

func TestWinRate(t *testing.T) {
	t.Parallel()

	trades := []sim.Trade{
		{Side: sim.Buy},               // buys never count
		{Side: sim.Sell, PnL: 995},    // win
		{Side: sim.Sell, PnL: -120},   // loss
		{Side: sim.Sell, PnL: 0},      // breakeven is not a win
		{Side: sim.Sell, PnL: 0.0001}, // win
	}
	assert.InDelta(t, 0.5, WinRate(trades), 1e-9)

	assert.Equal(t, 0.0, WinRate(nil))
	assert.Equal(t, 0.0, WinRate([]sim.Trade{{Side: sim.Buy}}))
}
