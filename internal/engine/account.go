package engine

import "github.com/shopspring/decimal"

// Account holds one client's balance position. Total is derived from
// Available and Held, never stored, so the total == available + held
// invariant cannot drift.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

func newAccount(clientID uint16) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns the account's total funds, available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}
