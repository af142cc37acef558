package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql) y
// asegura el esquema local.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS local_schedule (
			position   INT PRIMARY KEY,
			entry_id   TEXT NOT NULL,
			medicine   TEXT NOT NULL,
			dose       TEXT NOT NULL DEFAULT '',
			entry_date TEXT NOT NULL,
			entry_time TEXT NOT NULL,
			notes      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS local_history (
			position INT PRIMARY KEY,
			taken_at TIMESTAMPTZ NOT NULL,
			medicine TEXT NOT NULL,
			dose     TEXT NOT NULL DEFAULT '',
			status   TEXT NOT NULL,
			note     TEXT NOT NULL DEFAULT ''
		);
	`)
	return err
}
