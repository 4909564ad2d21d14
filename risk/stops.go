package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backsim/book"
)

// StopDecision reports whether a stop rule forces an exit. Price is the
// price the trigger was observed at.
type StopDecision struct {
	Triggered bool
	Reason    string
	Price     float64
}

// EvaluateStopLoss checks a position's stop rule against the current price
// and simulated time.
//
//   - StopPrice triggers when currentPrice <= threshold.
//   - StopDays triggers when whole days held (truncated, not rounded)
//     reach the configured count.
//   - StopNone and StopTrailing never trigger; trailing stops are defined
//     but intentionally inert.
func EvaluateStopLoss(p book.Position, currentPrice float64, now time.Time) StopDecision {
	if p.Status != book.Open {
		return StopDecision{}
	}

	switch p.Stop.Kind {
	case book.StopPrice:
		if currentPrice <= p.Stop.Threshold {
			return StopDecision{
				Triggered: true,
				Reason: fmt.Sprintf("stop loss: price %.2f <= threshold %.2f",
					currentPrice, p.Stop.Threshold),
				Price: currentPrice,
			}
		}

	case book.StopDays:
		held := int(now.Sub(p.EntryTime).Hours() / 24)
		if held >= p.Stop.Days {
			return StopDecision{
				Triggered: true,
				Reason: fmt.Sprintf("stop loss: held %d days >= limit %d",
					held, p.Stop.Days),
				Price: currentPrice,
			}
		}
	}

	return StopDecision{}
}
