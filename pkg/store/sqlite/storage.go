package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const TimeEntriesSchema = `
	CREATE TABLE IF NOT EXISTS time_entries (
		id INTEGER NOT NULL,
		workspace_id INTEGER NOT NULL,
		member_id INTEGER NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		project_id INTEGER NULL,
		project_name TEXT NOT NULL DEFAULT '',
		client_id INTEGER NULL,
		client_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		start_time TIMESTAMP NOT NULL,
		stop_time TIMESTAMP NULL,
		seconds INTEGER NOT NULL,
		billable INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (workspace_id, id)
	);
`

const TimeEntriesIndex = `
	CREATE INDEX IF NOT EXISTS idx_time_entries_window
	ON time_entries (workspace_id, start_time);
`

const RateHistorySchema = `
	CREATE TABLE IF NOT EXISTS rate_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workspace_id INTEGER NOT NULL,
		member_id INTEGER NOT NULL,
		client_id INTEGER NULL,
		hourly_rate_usd REAL NULL,
		hourly_rate_eur REAL NULL,
		effective_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const RateHistoryIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_history_scope
	ON rate_history (workspace_id, member_id, IFNULL(client_id, -1), effective_date);
`

var bootQueries = []string{
	TimeEntriesSchema,
	TimeEntriesIndex,
	RateHistorySchema,
	RateHistoryIndex,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	db, err := sql.Open("sqlite", settings.DbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite allows one writer, and every pooled connection to :memory:
	// would open its own empty database.
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return db, nil
}
