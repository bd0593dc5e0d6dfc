package engine

import (
	"github.com/shopspring/decimal"

	"github.com/example/settler/internal/transaction"
)

// TxState is the dispute-lifecycle state of an applied deposit or withdrawal.
type TxState string

const (
	StateSettled     TxState = "settled"
	StateDisputed    TxState = "disputed"
	StateChargedBack TxState = "charged_back"
)

// AllowedTransitions defines the valid dispute-lifecycle transitions. A
// settled transaction may be disputed, a disputed transaction may be resolved
// back to settled or charged back, and charged_back is terminal.
func AllowedTransitions() map[TxState][]TxState {
	return map[TxState][]TxState{
		StateSettled:     {StateDisputed},
		StateDisputed:    {StateSettled, StateChargedBack},
		StateChargedBack: {},
	}
}

// validTransition checks if a dispute-lifecycle transition is allowed.
func validTransition(from, to TxState) bool {
	for _, next := range AllowedTransitions()[from] {
		if next == to {
			return true
		}
	}
	return false
}

// heldTransaction is the engine's memory of an applied deposit or withdrawal,
// keyed by transaction id so a later dispute-family record can locate the
// original amount and owner. Records are never deleted; a charged-back
// transaction stays in the table so repeats are rejected instead of re-applied.
type heldTransaction struct {
	txID     uint32
	clientID uint16
	kind     transaction.Kind
	amount   decimal.Decimal
	state    TxState
}

// transition moves the transaction to the requested lifecycle state, or
// returns the rejection explaining why the move is not allowed.
func (h *heldTransaction) transition(to TxState, clientID uint16) error {
	if !validTransition(h.state, to) {
		code := RejectNotDisputed
		switch {
		case h.state == StateChargedBack:
			code = RejectFinalized
		case to == StateDisputed:
			code = RejectAlreadyDisputed
		}
		return &RejectionError{Code: code, TxID: h.txID, ClientID: clientID}
	}
	h.state = to
	return nil
}
