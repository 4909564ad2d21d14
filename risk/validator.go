// Package risk holds the pre-trade checks, stop-loss evaluation and
// risk-based position sizing used by the execution coordinator.
package risk

import (
	"fmt"

	"github.com/rustyeddy/backsim/ledger"
)

// Policy bundles the risk limits applied before every order.
type Policy struct {
	// MaxPositionFraction caps a single order's value as a fraction of the
	// account's initial capital.
	MaxPositionFraction float64
}

func DefaultPolicy() Policy {
	return Policy{MaxPositionFraction: 0.25}
}

// Intent is the pre-trade view of an order. RefPrice is a quoted reference
// price, not necessarily the final fill; execution happens moments later in
// simulated time, so the estimate is acceptable.
type Intent struct {
	AccountID     string
	Symbol        string
	Buy           bool
	Quantity      int
	RefPrice      float64
	EstCommission float64
}

type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of Validate. A rejected order carries every
// violation found, not just the first.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

func (d Decision) Reason() string {
	if d.Allowed || len(d.Violations) == 0 {
		return ""
	}
	return d.Violations[0].Msg
}

// Validate runs every pre-trade check against the account snapshot. No
// state is mutated; the coordinator acts on the decision.
func Validate(p Policy, intent Intent, acct ledger.Account) Decision {
	d := Decision{Allowed: true}

	if !acct.Active {
		d.add("ACCOUNT_CLOSED", fmt.Sprintf("account %q is not active", acct.ID))
		return d
	}
	if intent.Quantity <= 0 {
		d.add("NO_QUANTITY", "quantity must be positive")
		return d
	}
	if intent.RefPrice <= 0 {
		d.add("NO_REF_PRICE", "reference price must be positive")
		return d
	}

	value := intent.RefPrice * float64(intent.Quantity)

	maxValue := p.MaxPositionFraction * acct.InitialCapital
	if value > maxValue {
		d.add("POSITION_TOO_LARGE",
			fmt.Sprintf("order value %.2f exceeds %.0f%% of initial capital (%.2f)",
				value, 100*p.MaxPositionFraction, maxValue))
	}

	if intent.Buy && value+intent.EstCommission > acct.Cash {
		d.add("INSUFFICIENT_CASH",
			fmt.Sprintf("order value %.2f plus commission %.2f exceeds available cash %.2f",
				value, intent.EstCommission, acct.Cash))
	}

	return d
}
