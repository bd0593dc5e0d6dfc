package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/example/settler/internal/engine"
)

// Write renders the final account snapshot as CSV: one row per account in the
// order given, decimal fields fixed to 4 fractional digits, total always
// available + held.
func Write(w io.Writer, accounts []engine.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, acct := range accounts {
		row := []string{
			strconv.FormatUint(uint64(acct.ClientID), 10),
			acct.Available.StringFixed(4),
			acct.Held.StringFixed(4),
			acct.Total().StringFixed(4),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", acct.ClientID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
