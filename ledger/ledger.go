// Package ledger is an external bookkeeping sink recording fill outcomes —
// not part of core semantics, purely observability — backed by Postgres via
// pgx, adapted from internal/dbx/dbx.go's singleton-pool idiom.
package ledger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xgr-network/xgr-solver/internal/xtypes"
)

func envDSN() (string, error) {
	dsn := strings.TrimSpace(os.Getenv("XGR_SOLVER_DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		return "", fmt.Errorf("ledger: database not configured (XGR_SOLVER_DB_DSN / DATABASE_URL)")
	}
	return dsn, nil
}

// NewPool opens a dedicated pgxpool.Pool with the same standard settings
// dbx.NewPGXPool uses, against dsn (or the environment DSN if dsn is empty).
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if strings.TrimSpace(dsn) == "" {
		var err error
		dsn, err = envDSN()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ledger: parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ledger: new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	return pool, nil
}

// Ledger records one row per step outcome during a fill.
type Ledger struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Ledger { return &Ledger{pool: pool} }

// Schema is the table DDL the ledger expects; callers run migrations
// however their deployment already does (not the core's concern).
const Schema = `
CREATE TABLE IF NOT EXISTS fill_outcomes (
	plan_id     UUID        NOT NULL,
	step_index  INTEGER     NOT NULL,
	outcome     TEXT        NOT NULL,
	tx_hash     BYTEA,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (plan_id, step_index)
);
`

// RecordOutcome persists one {planID, stepIndex, outcome, txHash} row.
func (l *Ledger) RecordOutcome(ctx context.Context, planID uuid.UUID, stepIndex int, outcome string, txHash xtypes.Hash) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO fill_outcomes (plan_id, step_index, outcome, tx_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plan_id, step_index) DO UPDATE SET outcome = EXCLUDED.outcome, tx_hash = EXCLUDED.tx_hash
	`, planID, stepIndex, outcome, txHash.Bytes())
	if err != nil {
		return fmt.Errorf("ledger: record outcome: %w", err)
	}
	return nil
}
