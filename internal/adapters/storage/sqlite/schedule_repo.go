package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"meditrack/internal/domain/schedule"
)

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) Load(ctx context.Context) ([]schedule.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entry_id, medicine, dose, entry_date, entry_time, notes, status
		FROM local_schedule
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load schedule: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.Entry, 0)
	for rows.Next() {
		var e schedule.Entry
		var status string
		if err := rows.Scan(&e.ID, &e.Medicine, &e.Dose, &e.Date, &e.Time, &e.Notes, &status); err != nil {
			return nil, fmt.Errorf("sqlite: scan schedule: %w", err)
		}
		e.Status = schedule.Status(status)
		e.Local = true
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save reemplaza la colección local completa preservando el orden.
func (r *ScheduleRepo) Save(ctx context.Context, entries []schedule.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: save schedule: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM local_schedule`); err != nil {
		return fmt.Errorf("sqlite: clear schedule: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO local_schedule (position, entry_id, medicine, dose, entry_date, entry_time, notes, status)
			VALUES (?,?,?,?,?,?,?,?)
		`, i, e.ID, e.Medicine, e.Dose, e.Date, e.Time, e.Notes, string(e.Status)); err != nil {
			return fmt.Errorf("sqlite: insert schedule row: %w", err)
		}
	}

	return tx.Commit()
}
