package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var e history.Entry
		var takenAt string
		if err := rows.Scan(&takenAt, &e.Medicine, &e.Dose, &e.Status, &e.Note); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		// sqlite no tiene tipo de fecha nativo; se persiste RFC3339.
		if ts, err := time.Parse(time.RFC3339, takenAt); err == nil {
			e.Timestamp = ts
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
		return fmt.Errorf("sqlite: save history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_history`); err != nil {
		return fmt.Errorf("sqlite: clear history: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO local_history (position, taken_at, medicine, dose, status, note)
			VALUES (?,?,?,?,?,?)
		`, i, e.Timestamp.Format(time.RFC3339), e.Medicine, e.Dose, e.Status, e.Note); err != nil {
			return fmt.Errorf("sqlite: insert history row: %w", err)
		}
	}

	return tx.Commit()
}
