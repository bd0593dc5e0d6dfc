// Package publish pushes the final account snapshot of a settlement run into
// Postgres, for downstream consumers that want the balances queryable rather
// than scraped off stdout. Publishing is optional and happens once, after the
// transaction stream has been fully consumed.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/settler/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id       TEXT NOT NULL,
	client_id    INTEGER NOT NULL,
	available    NUMERIC(20,4) NOT NULL,
	held         NUMERIC(20,4) NOT NULL,
	total        NUMERIC(20,4) NOT NULL,
	locked       BOOLEAN NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, client_id)
)`

// Pool is the subset of pgxpool.Pool the publisher needs.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Publisher writes account snapshots to Postgres.
type Publisher struct {
	pool Pool
}

// NewPublisher creates a publisher on top of an existing pool.
func NewPublisher(pool Pool) *Publisher {
	return &Publisher{pool: pool}
}

// Connect opens a pgx pool for the given DSN and ensures the snapshot table
// exists.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot database: %w", err)
	}

	if _, err := pool.Exec(connectCtx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}

	return pool, nil
}

// PublishSnapshot upserts one row per account under the given run id. Total
// is recomputed from available and held, never taken on trust.
func (p *Publisher) PublishSnapshot(ctx context.Context, runID string, accounts []engine.Account) error {
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	for _, acct := range accounts {
		_, err := p.pool.Exec(ctx,
			`INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (run_id, client_id) DO UPDATE
			 SET available = EXCLUDED.available,
			     held      = EXCLUDED.held,
			     total     = EXCLUDED.total,
			     locked    = EXCLUDED.locked`,
			runID, int64(acct.ClientID),
			acct.Available.StringFixed(4), acct.Held.StringFixed(4), acct.Total().StringFixed(4),
			acct.Locked,
		)
		if err != nil {
			return fmt.Errorf("publish account %d: %w", acct.ClientID, err)
		}
	}
	return nil
}
