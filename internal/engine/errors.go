package engine

import (
	"errors"
	"fmt"
)

// RejectionCode classifies why a transaction was dropped.
type RejectionCode string

const (
	RejectUnknownReference  RejectionCode = "unknown_reference"
	RejectClientMismatch    RejectionCode = "client_mismatch"
	RejectInsufficientFunds RejectionCode = "insufficient_funds"
	RejectAccountLocked     RejectionCode = "account_locked"
	RejectAlreadyDisputed   RejectionCode = "already_disputed"
	RejectNotDisputed       RejectionCode = "not_disputed"
	RejectFinalized         RejectionCode = "transaction_finalized"
)

// RejectionError reports a transaction the engine refused to apply. It is
// never fatal: the caller skips the record and continues, and the account
// state is exactly what it was before the record arrived.
type RejectionError struct {
	Code     RejectionCode
	TxID     uint32
	ClientID uint16
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("transaction %d rejected for client %d: %s", e.TxID, e.ClientID, e.Code)
}

// IsRejection reports whether err is a non-fatal transaction rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}
