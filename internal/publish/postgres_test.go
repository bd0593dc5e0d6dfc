package publish

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/settler/internal/engine"
)

// mockPool captures Exec calls for assertions.
type mockPool struct {
	execs []execCall
	err   error
}

type execCall struct {
	sql  string
	args []interface{}
}

func (m *mockPool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	m.execs = append(m.execs, execCall{sql: sql, args: args})
	if m.err != nil {
		return pgconn.CommandTag{}, m.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPublishSnapshot(t *testing.T) {
	pool := &mockPool{}
	pub := NewPublisher(pool)

	accounts := []engine.Account{
		{ClientID: 1, Available: decimal.RequireFromString("12.5"), Held: decimal.Zero},
		{ClientID: 2, Available: decimal.RequireFromString("2"), Held: decimal.RequireFromString("10"), Locked: true},
	}

	err := pub.PublishSnapshot(context.Background(), "run-1", accounts)
	require.NoError(t, err)
	require.Len(t, pool.execs, 2)

	first := pool.execs[0].args
	assert.Equal(t, "run-1", first[0])
	assert.Equal(t, int64(1), first[1])
	assert.Equal(t, "12.5000", first[2])
	assert.Equal(t, "0.0000", first[3])
	assert.Equal(t, "12.5000", first[4])
	assert.Equal(t, false, first[5])

	second := pool.execs[1].args
	assert.Equal(t, int64(2), second[1])
	assert.Equal(t, "12.0000", second[4])
	assert.Equal(t, true, second[5])
}

func TestPublishSnapshotRequiresRunID(t *testing.T) {
	pub := NewPublisher(&mockPool{})

	err := pub.PublishSnapshot(context.Background(), "", nil)
	assert.Error(t, err)
}
