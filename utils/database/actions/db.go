package actions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the pending actions database and ensures the table exists.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pending actions database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS pending_actions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        execute_at INTEGER NOT NULL,
        payload TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_pending_actions_execute_at ON pending_actions (execute_at);`

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create pending_actions table: %w", err)
	}

	return db, nil
}
