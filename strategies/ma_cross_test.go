package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/sim"
)

func snap(d int, closes map[string]float64) Snapshot {
	ts := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	bars := make(map[string]market.Bar, len(closes))
	for sym, c := range closes {
		bars[sym] = market.Bar{Symbol: sym, Date: ts, Close: c}
	}
	return Snapshot{Time: ts, Bars: bars}
}

// feed runs a close sequence through the strategy for one symbol and
// returns the intents from the final bar.
func feed(s *MACrossover, sym string, closes []float64, open []book.Position) []OrderIntent {
	var out []OrderIntent
	for i, c := range closes {
		out = s.Signals(snap(i+1, map[string]float64{sym: c}), open)
	}
	return out
}

func TestBullCrossEmitsBuy(t *testing.T) {
	t.Parallel()

	s := NewMACrossover(Params{
		ShortPeriod: 2, LongPeriod: 3, PositionSize: 100,
		Stop: book.StopLoss{Kind: book.StopPrice, Threshold: 45},
	})

	// Declining then a sharp rise: short SMA crosses above long SMA on the
	// last bar.
	intents := feed(s, "AAPL", []float64{10, 9, 8, 12}, nil)
	require.Len(t, intents, 1)

	in := intents[0]
	assert.Equal(t, "AAPL", in.Symbol)
	assert.Equal(t, sim.Buy, in.Side)
	assert.Equal(t, 100, in.Quantity)
	assert.Equal(t, book.StopPrice, in.Stop.Kind)
	assert.Equal(t, 45.0, in.Stop.Threshold)
}

func TestBullCrossSuppressedWhenAlreadyHeld(t *testing.T) {
	t.Parallel()

	s := NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	held := []book.Position{{Symbol: "AAPL", Status: book.Open, Quantity: 100}}

	intents := feed(s, "AAPL", []float64{10, 9, 8, 12}, held)
	assert.Empty(t, intents)
}

func TestBearCrossEmitsSellOnlyWhenHeld(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 9, 8, 12, 7, 5}

	// Not held: the bear cross on the final bar emits nothing.
	s := NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	assert.Empty(t, feed(s, "AAPL", closes, nil))

	// Held: same sequence emits a sell.
	s = NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	held := []book.Position{{Symbol: "AAPL", Status: book.Open, Quantity: 100}}
	intents := feed(s, "AAPL", closes, held)
	require.Len(t, intents, 1)
	assert.Equal(t, sim.Sell, intents[0].Side)
}

func TestNoSignalWithoutCross(t *testing.T) {
	t.Parallel()

	s := NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	// Steadily rising: diff stays positive once warmed up; no cross.
	intents := feed(s, "AAPL", []float64{10, 11, 12, 13, 14, 15}, nil)
	assert.Empty(t, intents)
}

func TestWarmupMatchesLiveObservation(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 9, 8}

	warmed := NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	var hist []market.Bar
	for i, c := range closes {
		hist = append(hist, market.Bar{Symbol: "AAPL", Date: time.Date(2023, 12, i+1, 0, 0, 0, 0, time.UTC), Close: c})
	}
	warmed.Warmup("AAPL", hist)

	live := NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 100})
	feed(live, "AAPL", closes, nil)

	// Both see the same next bar and must agree.
	wi := warmed.Signals(snap(10, map[string]float64{"AAPL": 12}), nil)
	li := live.Signals(snap(10, map[string]float64{"AAPL": 12}), nil)
	assert.Equal(t, li, wi)
	require.Len(t, wi, 1)
	assert.Equal(t, sim.Buy, wi[0].Side)
}

func TestSignalsDeterministicAcrossSymbols(t *testing.T) {
	t.Parallel()

	mk := func() *MACrossover {
		return NewMACrossover(Params{ShortPeriod: 2, LongPeriod: 3, PositionSize: 10})
	}

	run := func(s *MACrossover) []OrderIntent {
		seqs := [][2]float64{{10, 20}, {9, 19}, {8, 18}, {12, 25}}
		var last []OrderIntent
		for i, pair := range seqs {
			last = s.Signals(snap(i+1, map[string]float64{
				"MSFT": pair[1], "AAPL": pair[0],
			}), nil)
		}
		return last
	}

	a := run(mk())
	b := run(mk())
	require.Equal(t, a, b)
	require.Len(t, a, 2)
	// Sorted symbol order.
	assert.Equal(t, "AAPL", a[0].Symbol)
	assert.Equal(t, "MSFT", a[1].Symbol)
}

func TestStrategyByName(t *testing.T) {
	t.Parallel()

	s, err := StrategyByName("ma_crossover", Params{})
	require.NoError(t, err)
	assert.Equal(t, "ma_crossover", s.Name())

	s, err = StrategyByName("noop", Params{})
	require.NoError(t, err)
	assert.Equal(t, "noop", s.Name())

	_, err = StrategyByName("teleport", Params{})
	assert.Error(t, err)
}
