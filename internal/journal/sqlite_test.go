package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/settler/pkg/audit"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	chain := audit.NewChainLogger()
	e1 := chain.Append(1, 1, "deposit", audit.OutcomeApplied, "")
	e2 := chain.Append(1, 2, "dispute", audit.OutcomeRejected, "client_mismatch")

	require.NoError(t, store.Append(e1))
	require.NoError(t, store.Append(e2))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, e1.ID, entries[0].ID)
	assert.Equal(t, e2.ID, entries[1].ID)
	assert.Equal(t, "client_mismatch", entries[1].Reason)
	assert.True(t, audit.VerifyChain(entries))
}

func TestStoreSequenceSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	chain := audit.NewChainLogger()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(chain.Append(1, 1, "deposit", audit.OutcomeApplied, "")))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Append(chain.Append(2, 1, "withdrawal", audit.OutcomeApplied, "")))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(1), entries[0].TxID)
	assert.Equal(t, uint32(2), entries[1].TxID)
}
