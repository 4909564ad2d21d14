package market

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrTemporalViolation means a single-point query asked for data beyond
	// the simulation clock. This is a caller bug (lookahead bias), never a
	// normal outcome, and must fail loudly.
	ErrTemporalViolation = errors.New("market: query beyond simulation time")

	// ErrNotFound means no bar exists at or before the requested time.
	ErrNotFound = errors.New("market: no bar available")
)

// Oracle supplies prices under a simulation clock. It is the sole guard
// against lookahead: nothing downstream may observe a bar dated after
// CurrentTime().
type Oracle interface {
	CurrentTime() time.Time

	// PriceAt returns the most recent bar dated at or before asOf.
	// Fails with ErrTemporalViolation if asOf is beyond the clock and
	// ErrNotFound if no bar exists yet.
	PriceAt(symbol string, asOf time.Time) (Bar, error)

	// History returns bars in [start, end]. end is silently clamped to the
	// clock; range queries are routinely over-specified and degrade
	// gracefully instead of erroring.
	History(symbol string, start, end time.Time) []Bar

	// IsAvailable reports whether a bar exists dated exactly asOf
	// (day granularity) and asOf is not beyond the clock.
	IsAvailable(symbol string, asOf time.Time) bool
}

// SimOracle is an Oracle whose clock the backtest loop drives forward.
type SimOracle interface {
	Oracle
	Advance(t time.Time) error
}

// HistoricalOracle serves bars loaded up front and owns the simulation
// clock. Bars per symbol are kept sorted by date ascending.
type HistoricalOracle struct {
	mu   sync.RWMutex
	now  time.Time
	bars map[string][]Bar
}

// NewHistoricalOracle builds an oracle with its clock at now. Bars may be
// supplied in any order; they are sorted per symbol.
func NewHistoricalOracle(bars []Bar, now time.Time) *HistoricalOracle {
	o := &HistoricalOracle{
		now:  Day(now),
		bars: make(map[string][]Bar),
	}
	for _, b := range bars {
		b.Date = Day(b.Date)
		o.bars[b.Symbol] = append(o.bars[b.Symbol], b)
	}
	for sym := range o.bars {
		sb := o.bars[sym]
		sort.Slice(sb, func(i, j int) bool { return sb[i].Date.Before(sb[j].Date) })
	}
	return o
}

func (o *HistoricalOracle) CurrentTime() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.now
}

// Advance moves the clock forward. The clock never goes backwards; a run
// that tried to would replay days and corrupt the equity curve.
func (o *HistoricalOracle) Advance(t time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	d := Day(t)
	if d.Before(o.now) {
		return fmt.Errorf("market: clock cannot go backwards (%s -> %s)",
			o.now.Format("2006-01-02"), d.Format("2006-01-02"))
	}
	o.now = d
	return nil
}

func (o *HistoricalOracle) PriceAt(symbol string, asOf time.Time) (Bar, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	asOfDay := Day(asOf)
	if asOfDay.After(o.now) {
		return Bar{}, fmt.Errorf("%w: %s asked for %s, now is %s",
			ErrTemporalViolation, symbol,
			asOfDay.Format("2006-01-02"), o.now.Format("2006-01-02"))
	}

	sb := o.bars[symbol]
	// First bar dated after asOf; the one before it is our answer.
	i := sort.Search(len(sb), func(i int) bool { return sb[i].Date.After(asOfDay) })
	if i == 0 {
		return Bar{}, fmt.Errorf("%w: %s at %s", ErrNotFound, symbol, asOfDay.Format("2006-01-02"))
	}
	return sb[i-1], nil
}

func (o *HistoricalOracle) History(symbol string, start, end time.Time) []Bar {
	o.mu.RLock()
	defer o.mu.RUnlock()

	startDay := Day(start)
	endDay := Day(end)
	if endDay.After(o.now) {
		endDay = o.now
	}

	sb := o.bars[symbol]
	lo := sort.Search(len(sb), func(i int) bool { return !sb[i].Date.Before(startDay) })
	hi := sort.Search(len(sb), func(i int) bool { return sb[i].Date.After(endDay) })
	if lo >= hi {
		return nil
	}

	out := make([]Bar, hi-lo)
	copy(out, sb[lo:hi])
	return out
}

func (o *HistoricalOracle) IsAvailable(symbol string, asOf time.Time) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()

	asOfDay := Day(asOf)
	if asOfDay.After(o.now) {
		return false
	}

	sb := o.bars[symbol]
	i := sort.Search(len(sb), func(i int) bool { return !sb[i].Date.Before(asOfDay) })
	return i < len(sb) && sb[i].Date.Equal(asOfDay)
}

// Symbols lists every symbol the oracle has bars for, sorted.
func (o *HistoricalOracle) Symbols() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	syms := make([]string, 0, len(o.bars))
	for s := range o.bars {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}
