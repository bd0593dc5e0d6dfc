package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/example/settler/internal/config"
	"github.com/example/settler/internal/csvio"
	"github.com/example/settler/internal/engine"
	"github.com/example/settler/internal/journal"
	"github.com/example/settler/internal/publish"
	"github.com/example/settler/pkg/audit"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "usage: settler <transactions.csv>\n%v\n", err)
		os.Exit(2)
	}

	// The snapshot CSV owns stdout; all diagnostics go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Error("settlement run failed", "error", err)
		os.Exit(1)
	}
}

// run executes one settlement pass: stream the input, apply every record,
// then emit the snapshot. Nothing is written to out until the whole stream
// has been consumed, so a failed run produces no partial output.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("open transactions file: %w", err)
	}
	defer f.Close()

	var sink *journal.Store
	if cfg.AuditDBPath != "" {
		sink, err = journal.Open(cfg.AuditDBPath)
		if err != nil {
			return err
		}
		defer sink.Close()
	}

	runID := uuid.New().String()
	logger.Info("settlement run started", "run_id", runID, "input", cfg.InputPath)

	eng := engine.New()
	chain := audit.NewChainLogger()
	reader := csvio.NewReader(f)

	var applied, rejected int
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read transactions: %w", err)
		}

		outcome, reason := audit.OutcomeApplied, ""
		if err := eng.Apply(rec); err != nil {
			var rej *engine.RejectionError
			if !errors.As(err, &rej) {
				return fmt.Errorf("apply transaction %d: %w", rec.TxID, err)
			}
			outcome, reason = audit.OutcomeRejected, string(rej.Code)
			rejected++
			logger.Debug("transaction rejected",
				"tx", rec.TxID, "client", rec.ClientID, "kind", rec.Kind, "reason", rej.Code)
		} else {
			applied++
		}

		entry := chain.Append(rec.TxID, rec.ClientID, string(rec.Kind), outcome, reason)
		if sink != nil {
			if err := sink.Append(entry); err != nil {
				return err
			}
		}
	}

	accounts := eng.Snapshot()
	logger.Info("settlement run complete",
		"run_id", runID, "applied", applied, "rejected", rejected, "accounts", len(accounts))

	if cfg.SnapshotDSN != "" {
		pool, err := publish.Connect(ctx, cfg.SnapshotDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := publish.NewPublisher(pool).PublishSnapshot(ctx, runID, accounts); err != nil {
			return err
		}
	}

	return csvio.Write(out, accounts)
}
