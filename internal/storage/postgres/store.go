package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"poolctl/internal/model"
)

// Store provides Postgres persistence for the operation journal.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// RecordOperation inserts one operation row. Calls are stored as JSONB.
func (s *Store) RecordOperation(ctx context.Context, op model.OperationRecord) error {
	calls, err := json.Marshal(op.Calls)
	if err != nil {
		return fmt.Errorf("marshal calls: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO operations (
			network, op, token0, token1, fee, tick_spacing, calls, tx_hash, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`,
		op.Network,
		op.Op,
		op.Token0,
		op.Token1,
		op.Fee, // decimal string, stored as NUMERIC (u128 range)
		int64(op.TickSpacing),
		calls,
		op.TxHash,
		op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}
