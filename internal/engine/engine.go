// Package engine implements the settlement state machine: it replays an
// ordered stream of payment transactions against per-client accounts and
// answers with the final balance position of every account touched.
package engine

import (
	"fmt"

	"github.com/example/settler/internal/transaction"
)

// Engine consumes transaction records one at a time, in input order, and
// mutates exactly one account per record. It exclusively owns both of its
// mappings; nothing else may touch them once processing has started.
type Engine struct {
	accounts map[uint16]*Account
	history  map[uint32]*heldTransaction
	order    []uint16
}

// New creates an empty settlement engine.
func New() *Engine {
	return &Engine{
		accounts: make(map[uint16]*Account),
		history:  make(map[uint32]*heldTransaction),
	}
}

// Apply settles a single transaction record. It returns nil when the record
// was applied, a *RejectionError when the record was dropped as a no-op, and
// a plain error only for records no valid parse can produce.
func (e *Engine) Apply(rec transaction.Record) error {
	switch rec.Kind {
	case transaction.KindDeposit:
		return e.deposit(rec)
	case transaction.KindWithdrawal:
		return e.withdraw(rec)
	case transaction.KindDispute:
		return e.dispute(rec)
	case transaction.KindResolve:
		return e.resolve(rec)
	case transaction.KindChargeback:
		return e.chargeback(rec)
	default:
		return fmt.Errorf("unhandled transaction kind %q", rec.Kind)
	}
}

// account returns the client's account, creating it on first reference.
// Only deposits and withdrawals call this; dispute-family records never
// create accounts.
func (e *Engine) account(clientID uint16) *Account {
	acct, ok := e.accounts[clientID]
	if !ok {
		acct = newAccount(clientID)
		e.accounts[clientID] = acct
		e.order = append(e.order, clientID)
	}
	return acct
}

func (e *Engine) deposit(rec transaction.Record) error {
	acct := e.account(rec.ClientID)
	if acct.Locked {
		return &RejectionError{Code: RejectAccountLocked, TxID: rec.TxID, ClientID: rec.ClientID}
	}

	acct.Available = acct.Available.Add(rec.Amount)
	e.remember(rec)
	return nil
}

func (e *Engine) withdraw(rec transaction.Record) error {
	acct := e.account(rec.ClientID)
	if acct.Locked {
		return &RejectionError{Code: RejectAccountLocked, TxID: rec.TxID, ClientID: rec.ClientID}
	}
	if acct.Available.LessThan(rec.Amount) {
		return &RejectionError{Code: RejectInsufficientFunds, TxID: rec.TxID, ClientID: rec.ClientID}
	}

	acct.Available = acct.Available.Sub(rec.Amount)
	e.remember(rec)
	return nil
}

// remember stores an applied deposit/withdrawal so later dispute-family
// records can resolve it.
func (e *Engine) remember(rec transaction.Record) {
	e.history[rec.TxID] = &heldTransaction{
		txID:     rec.TxID,
		clientID: rec.ClientID,
		kind:     rec.Kind,
		amount:   rec.Amount,
		state:    StateSettled,
	}
}

// reference resolves the transaction a dispute-family record targets,
// rejecting unknown ids and cross-client references.
func (e *Engine) reference(rec transaction.Record) (*heldTransaction, error) {
	ref, ok := e.history[rec.RefTxID()]
	if !ok {
		return nil, &RejectionError{Code: RejectUnknownReference, TxID: rec.TxID, ClientID: rec.ClientID}
	}
	if ref.clientID != rec.ClientID {
		return nil, &RejectionError{Code: RejectClientMismatch, TxID: rec.TxID, ClientID: rec.ClientID}
	}
	return ref, nil
}

func (e *Engine) dispute(rec transaction.Record) error {
	ref, err := e.reference(rec)
	if err != nil {
		return err
	}
	if err := ref.transition(StateDisputed, rec.ClientID); err != nil {
		return err
	}

	acct := e.accounts[rec.ClientID]
	acct.Available = acct.Available.Sub(ref.amount)
	acct.Held = acct.Held.Add(ref.amount)
	return nil
}

func (e *Engine) resolve(rec transaction.Record) error {
	ref, err := e.reference(rec)
	if err != nil {
		return err
	}
	if err := ref.transition(StateSettled, rec.ClientID); err != nil {
		return err
	}

	acct := e.accounts[rec.ClientID]
	acct.Held = acct.Held.Sub(ref.amount)
	acct.Available = acct.Available.Add(ref.amount)
	return nil
}

func (e *Engine) chargeback(rec transaction.Record) error {
	ref, err := e.reference(rec)
	if err != nil {
		return err
	}
	if err := ref.transition(StateChargedBack, rec.ClientID); err != nil {
		return err
	}

	acct := e.accounts[rec.ClientID]
	acct.Held = acct.Held.Sub(ref.amount)
	acct.Locked = true
	return nil
}

// Snapshot returns a copy of every account ever created, in discovery order.
func (e *Engine) Snapshot() []Account {
	accounts := make([]Account, 0, len(e.order))
	for _, clientID := range e.order {
		accounts = append(accounts, *e.accounts[clientID])
	}
	return accounts
}
