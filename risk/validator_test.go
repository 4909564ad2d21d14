package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backsim/ledger"
)

func activeAccount(cash float64) ledger.Account {
	return ledger.Account{ID: "acct-1", Cash: cash, InitialCapital: 100000, Active: true}
}

func TestValidateRejectsClosedAccount(t *testing.T) {
	t.Parallel()

	acct := activeAccount(100000)
	acct.Active = false

	d := Validate(DefaultPolicy(), Intent{Buy: true, Quantity: 10, RefPrice: 100}, acct)
	assert.False(t, d.Allowed)
	assert.Equal(t, "ACCOUNT_CLOSED", d.Violations[0].Code)
}

func TestValidatePositionFractionCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		qty     int
		price   float64
		allowed bool
	}{
		{"well under cap", 100, 150, true},
		{"at cap", 250, 100, true},        // 25000 == 0.25 * 100000
		{"just over cap", 251, 100, false}, // 25100 > 25000
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Validate(DefaultPolicy(), Intent{Buy: true, Quantity: tt.qty, RefPrice: tt.price}, activeAccount(100000))
			assert.Equal(t, tt.allowed, d.Allowed, d.Reason())
		})
	}
}

func TestValidateBuyNeedsCashForValueAndCommission(t *testing.T) {
	t.Parallel()

	// 100 * 150 + 5 = 15005 > 15000 cash.
	d := Validate(DefaultPolicy(),
		Intent{Buy: true, Quantity: 100, RefPrice: 150, EstCommission: 5},
		activeAccount(15000))
	assert.False(t, d.Allowed)
	assert.Equal(t, "INSUFFICIENT_CASH", d.Violations[0].Code)

	// Sells are not cash-constrained.
	d = Validate(DefaultPolicy(),
		Intent{Buy: false, Quantity: 100, RefPrice: 150, EstCommission: 5},
		activeAccount(0))
	assert.True(t, d.Allowed)
}

func TestValidateSanityChecks(t *testing.T) {
	t.Parallel()

	d := Validate(DefaultPolicy(), Intent{Buy: true, Quantity: 0, RefPrice: 100}, activeAccount(1000))
	assert.False(t, d.Allowed)

	d = Validate(DefaultPolicy(), Intent{Buy: true, Quantity: 10, RefPrice: 0}, activeAccount(1000))
	assert.False(t, d.Allowed)
}
