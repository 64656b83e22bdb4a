package bans

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the ban index database and ensures the table exists.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ban index database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS guild_bans (
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          username TEXT NOT NULL,
	          avatar TEXT DEFAULT '',
	          reason TEXT DEFAULT '',
	          guild_size INTEGER NOT NULL,
	          unreliable INTEGER DEFAULT 0,
	          timestamp INTEGER NOT NULL,
	          PRIMARY KEY (guild_id, user_id)
	      );
	      CREATE INDEX IF NOT EXISTS idx_guild_bans_user ON guild_bans (user_id);`
	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create guild_bans table: %w", err)
	}

	return db, nil
}
