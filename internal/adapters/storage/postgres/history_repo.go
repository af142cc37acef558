package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"meditrack/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Load(ctx context.Context) ([]history.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT taken_at, medicine, dose, status, note
		FROM local_history
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load history: %w", err)
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.Timestamp, &e.Medicine, &e.Dose, &e.Status, &e.Note); err != nil {
			return nil, fmt.Errorf("postgres: scan history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save reemplaza el ledger local completo (ya acotado por el service)
// preservando el orden más-reciente-primero.
func (r *HistoryRepo) Save(ctx context.Context, entries []history.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: save history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_history`); err != nil {
		return fmt.Errorf("postgres: clear history: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO local_history (position, taken_at, medicine, dose, status, note)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, i, e.Timestamp, e.Medicine, e.Dose, e.Status, e.Note); err != nil {
			return fmt.Errorf("postgres: insert history row: %w", err)
		}
	}

	return tx.Commit()
}
