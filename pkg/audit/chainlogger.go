package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome of one processed transaction.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
)

// Entry is a single tamper-evident journal record for one processed
// transaction: which record it was, whether the engine applied or rejected
// it, and the hash linking it to the entry before it.
type Entry struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	TxID         uint32 `json:"tx_id"`
	ClientID     uint16 `json:"client_id"`
	Kind         string `json:"kind"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason,omitempty"`
	Hash         string `json:"hash"`
}

// ChainLogger provides a tamper-proof settlement journal using hash chaining.
type ChainLogger struct {
	mu           sync.Mutex
	previousHash string
}

// NewChainLogger creates a new ChainLogger initialized with a zero hash.
func NewChainLogger() *ChainLogger {
	return &ChainLogger{
		previousHash: strings.Repeat("0", 64),
	}
}

// Append adds a journal entry for one processed transaction to the chain.
// Reason is the rejection code, empty when the transaction was applied.
func (c *ChainLogger) Append(txID uint32, clientID uint16, kind, outcome, reason string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		PreviousHash: c.previousHash,
		TxID:         txID,
		ClientID:     clientID,
		Kind:         kind,
		Outcome:      outcome,
		Reason:       reason,
	}
	entry.Hash = entryHash(entry)

	c.previousHash = entry.Hash
	return entry
}

// VerifyChain checks if a slice of entries forms a valid hash chain.
func VerifyChain(entries []*Entry) bool {
	if len(entries) == 0 {
		return true
	}

	for i, entry := range entries {
		if i > 0 && entry.PreviousHash != entries[i-1].Hash {
			return false
		}
		if entryHash(entry) != entry.Hash {
			return false
		}
	}
	return true
}

func entryHash(e *Entry) string {
	hashInput := fmt.Sprintf("%s|%s|%d|%d|%s|%s|%s",
		e.PreviousHash, e.Timestamp, e.TxID, e.ClientID, e.Kind, e.Outcome, e.Reason)
	hash := sha256.Sum256([]byte(hashInput))
	return hex.EncodeToString(hash[:])
}
