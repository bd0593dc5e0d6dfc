// Package csvio adapts the settlement engine to its delimited-text
// surroundings: a streaming reader for the transaction input and a writer for
// the final account snapshot. It contains no settlement decisions of its own.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/example/settler/internal/transaction"
)

// Reader streams transaction records from a CSV source one row at a time.
// The expected columns are type, client, tx and amount, located by header
// name; the amount column may be absent on dispute-family rows.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
	line int
}

// NewReader wraps an io.Reader producing CSV transaction rows.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Dispute-family rows may omit the trailing amount field entirely.
	cr.FieldsPerRecord = -1
	return &Reader{csv: cr}
}

// Next returns the next transaction record, or io.EOF once the stream is
// exhausted. Any other error means the row was malformed and, per the run
// policy, the whole run must abort before emitting output.
func (r *Reader) Next() (transaction.Record, error) {
	if r.cols == nil {
		if err := r.readHeader(); err != nil {
			return transaction.Record{}, err
		}
	}

	row, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return transaction.Record{}, io.EOF
		}
		return transaction.Record{}, fmt.Errorf("read row: %w", err)
	}
	r.line++

	rec, err := transaction.Parse(
		r.field(row, "type"),
		r.field(row, "client"),
		r.field(row, "tx"),
		r.field(row, "amount"),
	)
	if err != nil {
		return transaction.Record{}, fmt.Errorf("row %d: %w", r.line, err)
	}
	return rec, nil
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("read header: %w", err)
	}

	r.cols = make(map[string]int, len(header))
	for i, name := range header {
		r.cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := r.cols[required]; !ok {
			return fmt.Errorf("header missing required column %q", required)
		}
	}
	return nil
}

// field extracts a named column from a row, returning "" when the column is
// missing or the row is too short to reach it.
func (r *Reader) field(row []string, name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
