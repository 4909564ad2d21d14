package strategies

import (
	"sort"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/indicators"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/sim"
)

// MACrossover trades simple-moving-average crossovers per symbol:
//
//   - short SMA crossing from below to above the long SMA emits a Buy
//     (only when no position is open for the symbol)
//   - crossing from above to below emits a Sell (only when one is open)
//
// Intents carry the configured fixed position size and stop-loss template.
type MACrossover struct {
	params Params
	state  map[string]*symbolState
}

type symbolState struct {
	short *indicators.SMA
	long  *indicators.SMA

	lastDiff float64
	haveLast bool
}

func NewMACrossover(p Params) *MACrossover {
	if p.ShortPeriod <= 0 {
		p.ShortPeriod = 20
	}
	if p.LongPeriod <= 0 {
		p.LongPeriod = 50
	}
	if p.PositionSize <= 0 {
		p.PositionSize = 100
	}

	return &MACrossover{
		params: p,
		state:  make(map[string]*symbolState),
	}
}

func (s *MACrossover) Name() string { return "ma_crossover" }

func (s *MACrossover) stateFor(symbol string) *symbolState {
	st, ok := s.state[symbol]
	if !ok {
		st = &symbolState{
			short: indicators.NewSMA(s.params.ShortPeriod),
			long:  indicators.NewSMA(s.params.LongPeriod),
		}
		s.state[symbol] = st
	}
	return st
}

// Warmup seeds the moving averages from pre-start history so crosses can
// fire from the first simulated day. The backtest loop calls this with a
// lookback window that never reaches past the simulation start.
func (s *MACrossover) Warmup(symbol string, bars []market.Bar) {
	st := s.stateFor(symbol)
	for _, b := range bars {
		s.observe(st, b.Close)
	}
}

func (s *MACrossover) observe(st *symbolState, close float64) (bullCross, bearCross bool) {
	st.short.Update(close)
	st.long.Update(close)

	if !st.short.Ready() || !st.long.Ready() {
		return false, false
	}

	diff := st.short.Value() - st.long.Value()
	if !st.haveLast {
		st.lastDiff = diff
		st.haveLast = true
		return false, false
	}

	bullCross = diff > 0 && st.lastDiff <= 0
	bearCross = diff < 0 && st.lastDiff >= 0
	st.lastDiff = diff
	return bullCross, bearCross
}

func (s *MACrossover) Signals(snap Snapshot, open []book.Position) []OrderIntent {
	held := make(map[string]bool, len(open))
	for _, p := range open {
		held[p.Symbol] = true
	}

	// Symbols in sorted order so identical inputs yield identical intent
	// sequences regardless of map iteration.
	symbols := make([]string, 0, len(snap.Bars))
	for sym := range snap.Bars {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var intents []OrderIntent
	for _, sym := range symbols {
		bar := snap.Bars[sym]
		bull, bear := s.observe(s.stateFor(sym), bar.Close)

		switch {
		case bull && !held[sym]:
			intents = append(intents, OrderIntent{
				Symbol:   sym,
				Side:     sim.Buy,
				Quantity: s.params.PositionSize,
				Stop:     s.params.Stop,
			})

		case bear && held[sym]:
			intents = append(intents, OrderIntent{
				Symbol:   sym,
				Side:     sim.Sell,
				Quantity: s.params.PositionSize,
			})
		}
	}
	return intents
}
