package transaction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the five recognized transaction types.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// MaxFractionalDigits is the bounded precision of monetary amounts.
const MaxFractionalDigits = 4

// MalformedRecordError reports a raw field tuple that cannot be turned into a
// valid Record.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s: %s", e.Field, e.Reason)
}

// Record is an immutable, validated representation of one input event.
//
// Amount is set only for deposits and withdrawals; dispute-family records
// carry no amount of their own and reference a prior transaction instead.
type Record struct {
	Kind     Kind
	ClientID uint16
	TxID     uint32
	Amount   decimal.Decimal
}

// MovesFunds reports whether the record carries its own amount, i.e. whether
// it is a deposit or a withdrawal.
func (r Record) MovesFunds() bool {
	return r.Kind == KindDeposit || r.Kind == KindWithdrawal
}

// RefTxID is the id of the transaction this record settles against: the
// record's own id for deposits and withdrawals, the disputed transaction's id
// for the dispute-family kinds (the wire format reuses the same column).
func (r Record) RefTxID() uint32 {
	return r.TxID
}

// ParseKind normalizes and validates a raw kind token.
func ParseKind(token string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(token))) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdrawal:
		return KindWithdrawal, nil
	case KindDispute:
		return KindDispute, nil
	case KindResolve:
		return KindResolve, nil
	case KindChargeback:
		return KindChargeback, nil
	default:
		return "", &MalformedRecordError{Field: "type", Reason: fmt.Sprintf("unrecognized transaction type %q", token)}
	}
}

// Parse produces a well-typed Record from a raw field tuple, or fails with a
// MalformedRecordError. It is a pure transform with no side effects.
func Parse(kindTok, clientTok, txTok, amountTok string) (Record, error) {
	kind, err := ParseKind(kindTok)
	if err != nil {
		return Record{}, err
	}

	client, err := strconv.ParseUint(strings.TrimSpace(clientTok), 10, 16)
	if err != nil {
		return Record{}, &MalformedRecordError{Field: "client", Reason: fmt.Sprintf("invalid client id %q", clientTok)}
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(txTok), 10, 32)
	if err != nil {
		return Record{}, &MalformedRecordError{Field: "tx", Reason: fmt.Sprintf("invalid transaction id %q", txTok)}
	}

	rec := Record{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	amountTok = strings.TrimSpace(amountTok)

	if !rec.MovesFunds() {
		if amountTok != "" {
			return Record{}, &MalformedRecordError{Field: "amount", Reason: fmt.Sprintf("%s records must not carry an amount", kind)}
		}
		return rec, nil
	}

	if amountTok == "" {
		return Record{}, &MalformedRecordError{Field: "amount", Reason: fmt.Sprintf("%s records require an amount", kind)}
	}

	amount, err := decimal.NewFromString(amountTok)
	if err != nil {
		return Record{}, &MalformedRecordError{Field: "amount", Reason: fmt.Sprintf("invalid amount %q", amountTok)}
	}
	if amount.IsNegative() {
		return Record{}, &MalformedRecordError{Field: "amount", Reason: "amount must not be negative"}
	}
	if amount.Exponent() < -MaxFractionalDigits {
		return Record{}, &MalformedRecordError{Field: "amount", Reason: fmt.Sprintf("amount %q exceeds %d fractional digits", amountTok, MaxFractionalDigits)}
	}

	rec.Amount = amount
	return rec, nil
}
