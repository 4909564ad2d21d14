package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testBars() []Bar {
	return []Bar{
		{Symbol: "AAPL", Date: day(2024, 1, 2), Close: 100},
		{Symbol: "AAPL", Date: day(2024, 1, 3), Close: 101},
		{Symbol: "AAPL", Date: day(2024, 1, 5), Close: 103}, // gap on the 4th
		{Symbol: "AAPL", Date: day(2024, 1, 8), Close: 104},
		{Symbol: "MSFT", Date: day(2024, 1, 2), Close: 300},
		{Symbol: "MSFT", Date: day(2024, 1, 3), Close: 305},
	}
}

func TestPriceAtRejectsFuture(t *testing.T) {
	t.Parallel()

	o := NewHistoricalOracle(testBars(), day(2024, 1, 3))

	_, err := o.PriceAt("AAPL", day(2024, 1, 4))
	assert.ErrorIs(t, err, ErrTemporalViolation)

	b, err := o.PriceAt("AAPL", day(2024, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, 101.0, b.Close)
}

func TestPriceAtUsesLastKnownBar(t *testing.T) {
	t.Parallel()

	o := NewHistoricalOracle(testBars(), day(2024, 1, 6))

	// Jan 4 has no bar; last known close is Jan 3.
	b, err := o.PriceAt("AAPL", day(2024, 1, 4))
	require.NoError(t, err)
	assert.Equal(t, 101.0, b.Close)

	_, err = o.PriceAt("TSLA", day(2024, 1, 3))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryClampsToClock(t *testing.T) {
	t.Parallel()

	o := NewHistoricalOracle(testBars(), day(2024, 1, 3))

	// End is far beyond the clock; the range degrades silently.
	hist := o.History("AAPL", day(2024, 1, 1), day(2024, 12, 31))
	require.Len(t, hist, 2)
	assert.Equal(t, 100.0, hist[0].Close)
	assert.Equal(t, 101.0, hist[1].Close)

	assert.Empty(t, o.History("AAPL", day(2024, 2, 1), day(2024, 3, 1)))
	assert.Empty(t, o.History("TSLA", day(2024, 1, 1), day(2024, 1, 3)))
}

func TestHistoryNeverLeaksFutureBars(t *testing.T) {
	t.Parallel()

	bars := testBars()
	o := NewHistoricalOracle(bars, day(2024, 1, 2))

	// Walk the clock forward one day at a time; no query may ever return a
	// bar dated after the clock.
	for d := day(2024, 1, 2); !d.After(day(2024, 1, 10)); d = d.AddDate(0, 0, 1) {
		require.NoError(t, o.Advance(d))
		for _, sym := range o.Symbols() {
			for _, b := range o.History(sym, day(2024, 1, 1), day(2025, 1, 1)) {
				assert.False(t, b.Date.After(o.CurrentTime()),
					"bar %s %s leaked past clock %s", sym, b.Date, o.CurrentTime())
			}
			if b, err := o.PriceAt(sym, d); err == nil {
				assert.False(t, b.Date.After(o.CurrentTime()))
			}
		}
	}
}

func TestAdvanceRejectsBackwards(t *testing.T) {
	t.Parallel()

	o := NewHistoricalOracle(testBars(), day(2024, 1, 5))
	require.NoError(t, o.Advance(day(2024, 1, 6)))
	assert.Error(t, o.Advance(day(2024, 1, 4)))
	assert.Equal(t, day(2024, 1, 6), o.CurrentTime())
}

func TestIsAvailable(t *testing.T) {
	t.Parallel()

	o := NewHistoricalOracle(testBars(), day(2024, 1, 5))

	assert.True(t, o.IsAvailable("AAPL", day(2024, 1, 5)))
	assert.False(t, o.IsAvailable("AAPL", day(2024, 1, 4)), "gap day")
	assert.False(t, o.IsAvailable("AAPL", day(2024, 1, 8)), "beyond clock")
	assert.False(t, o.IsAvailable("TSLA", day(2024, 1, 2)))
}
