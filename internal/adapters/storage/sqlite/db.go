package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) el archivo sqlite local y aplica las migraciones
// pendientes. Es el análogo durable del storage del navegador: un solo
// archivo, sin servidor.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	// Un solo proceso escribe; serializar el acceso evita SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

type migration struct {
	version int
	upSQL   string
}

var migrations = []migration{
	{
		version: 1,
		upSQL: `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS local_schedule (
	position   INTEGER PRIMARY KEY,
	entry_id   TEXT NOT NULL,
	medicine   TEXT NOT NULL,
	dose       TEXT NOT NULL DEFAULT '',
	entry_date TEXT NOT NULL,
	entry_time TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS local_history (
	position INTEGER PRIMARY KEY,
	taken_at TEXT NOT NULL,
	medicine TEXT NOT NULL,
	dose     TEXT NOT NULL DEFAULT '',
	status   TEXT NOT NULL,
	note     TEXT NOT NULL DEFAULT ''
);
`,
	},
}

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("sqlite: ensure migrations table: %w", err)
	}

	var current sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.version) <= current.Int64 {
			continue
		}
		if _, err := db.ExecContext(ctx, m.upSQL); err != nil {
			return fmt.Errorf("sqlite: apply migration %d: %w", m.version, err)
		}
		if _, err := db.ExecContext(ctx, `
			INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)
		`, m.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("sqlite: record migration %d: %w", m.version, err)
		}
	}
	return nil
}
