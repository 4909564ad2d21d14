package strategies

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/sim"
)

// Snapshot is the market state a strategy sees for one simulated day: only
// the bars available for that day, never anything ahead of the clock.
type Snapshot struct {
	Time time.Time
	Bars map[string]market.Bar
}

// OrderIntent is a trade the strategy wants; the coordinator decides
// whether it actually fills.
type OrderIntent struct {
	Symbol   string
	Side     sim.Side
	Quantity int
	Stop     book.StopLoss
}

// Strategy produces trade intents from market state and the account's open
// positions. Implementations differ by parameters, not by contract; the
// backtest loop treats them all alike.
type Strategy interface {
	Name() string
	Signals(snap Snapshot, open []book.Position) []OrderIntent
}

// Params carries the config surface shared by the built-in strategies.
type Params struct {
	ShortPeriod  int
	LongPeriod   int
	PositionSize int
	Stop         book.StopLoss
}

// StrategyByName builds a strategy from its config type tag.
func StrategyByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "ma_crossover", "ma-crossover":
		return NewMACrossover(p), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, ma_crossover)", name)
	}
}
