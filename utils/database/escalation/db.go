package escalation

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the escalation database and ensures all necessary tables are created.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to escalation database: %w", err)
	}

	entriesSchema := `CREATE TABLE IF NOT EXISTS escalation_entries (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          authorizer_id TEXT NOT NULL,
	          authorizer_name TEXT NOT NULL,
	          display_name TEXT NOT NULL,
	          timestamp INTEGER NOT NULL,
	          level_delta INTEGER NOT NULL,
	          actions_json TEXT DEFAULT '[]'
	      );`
	if _, err = db.Exec(entriesSchema); err != nil {
		return nil, fmt.Errorf("failed to create escalation_entries table: %w", err)
	}

	deescalationsSchema := `CREATE TABLE IF NOT EXISTS pending_deescalations (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          expire_at INTEGER NOT NULL,
	          amount INTEGER NOT NULL,
	          PRIMARY KEY (guild_id, user_id)
	      );`
	if _, err = db.Exec(deescalationsSchema); err != nil {
		return nil, fmt.Errorf("failed to create pending_deescalations table: %w", err)
	}

	return db, nil
}
