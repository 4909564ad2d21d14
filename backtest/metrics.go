package backtest

import (
	"math"

	"github.com/rustyeddy/backsim/sim"
)

// tradingDaysPerYear annualizes daily Sharpe ratios.
const tradingDaysPerYear = 252

// TotalReturn is the fractional gain over initial capital.
func TotalReturn(initialCapital, finalEquity float64) float64 {
	if initialCapital == 0 {
		return 0
	}
	return (finalEquity - initialCapital) / initialCapital
}

// MaxDrawdown is the largest peak-to-trough equity decline, as a positive
// fraction of the peak. Zero when equity never falls below a prior peak.
func MaxDrawdown(snaps []DailySnapshot) float64 {
	var peak, maxDD float64
	for _, s := range snaps {
		if s.TotalEquity > peak {
			peak = s.TotalEquity
		}
		if peak > 0 {
			dd := (peak - s.TotalEquity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio annualizes the mean/stdev of daily equity returns by √252.
// Zero-rate convention; returns 0 with fewer than two snapshots or a flat
// equity curve.
func SharpeRatio(snaps []DailySnapshot) float64 {
	if len(snaps) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(snaps)-1)
	for i := 1; i < len(snaps); i++ {
		prev := snaps[i-1].TotalEquity
		if prev == 0 {
			continue
		}
		returns = append(returns, (snaps[i].TotalEquity-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	stdev := math.Sqrt(ss / float64(len(returns)-1))
	if stdev == 0 {
		return 0
	}

	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}

// WinRate is the fraction of closing trades with positive net P&L.
// Only sells close positions, so buys are excluded. Zero when no
// positions were closed.
func WinRate(trades []sim.Trade) float64 {
	var closed, wins int
	for _, t := range trades {
		if t.Side != sim.Sell {
			continue
		}
		closed++
		if t.PnL > 0 {
			wins++
		}
	}
	if closed == 0 {
		return 0
	}
	return float64(wins) / float64(closed)
}
