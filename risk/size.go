package risk

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStopPrice means a sizing request's stop is at or above entry,
// which would make per-share risk zero or negative.
var ErrInvalidStopPrice = errors.New("risk: stop price must be below entry price")

// PositionSize converts an account risk budget into a share count:
// floor(balance * riskFraction / (entry - stop)).
func PositionSize(balance, riskFraction, entryPrice, stopPrice float64) (int, error) {
	if stopPrice >= entryPrice {
		return 0, fmt.Errorf("%w: stop %.2f, entry %.2f", ErrInvalidStopPrice, stopPrice, entryPrice)
	}

	riskAmount := balance * riskFraction
	perShare := entryPrice - stopPrice
	return int(math.Floor(riskAmount / perShare)), nil
}
