package batch

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo implements Tracker on Postgres so batch progress survives
// restarts and is shared across worker processes.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, batchID string, total int) error {
	query := `INSERT INTO ingest_batches (batch_id, total) VALUES ($1, $2)
		ON CONFLICT (batch_id) DO UPDATE SET total = $2, completed = 0, failed = 0, updated_at = now()`
	_, err := r.db.ExecContext(ctx, query, batchID, total)
	return err
}

func (r *PostgresRepo) IncrementCompleted(ctx context.Context, batchID string) error {
	return r.increment(ctx, batchID, "completed")
}

func (r *PostgresRepo) IncrementFailed(ctx context.Context, batchID string) error {
	return r.increment(ctx, batchID, "failed")
}

func (r *PostgresRepo) increment(ctx context.Context, batchID, column string) error {
	// column is one of two compile-time constants, never user input.
	query := `UPDATE ingest_batches SET ` + column + ` = ` + column + ` + 1, updated_at = now() WHERE batch_id = $1`
	res, err := r.db.ExecContext(ctx, query, batchID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Get(ctx context.Context, batchID string) (*Status, error) {
	s := &Status{}
	query := `SELECT batch_id, total, completed, failed, created_at, updated_at FROM ingest_batches WHERE batch_id = $1`
	err := r.db.QueryRowContext(ctx, query, batchID).
		Scan(&s.BatchID, &s.Total, &s.Completed, &s.Failed, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, batchID string) error {
	query := `DELETE FROM ingest_batches WHERE batch_id = $1`
	_, err := r.db.ExecContext(ctx, query, batchID)
	return err
}
