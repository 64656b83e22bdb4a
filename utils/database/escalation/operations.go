package escalation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gatekeeper-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddEntry appends a new entry to the escalation ledger and returns the new row's ID.
func AddEntry(db *sqlx.DB, entry model.EscalationEntry) (int64, error) {
	query := `INSERT INTO escalation_entries (guild_id, user_id, authorizer_id, authorizer_name, display_name, timestamp, level_delta, actions_json)
			  VALUES (:guild_id, :user_id, :authorizer_id, :authorizer_name, :display_name, :timestamp, :level_delta, :actions_json)`

	result, err := db.NamedExec(query, entry)
	if err != nil {
		return 0, fmt.Errorf("failed to insert escalation entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetEntriesByUser retrieves the escalation ledger for a user in a guild,
// ascending by timestamp. Ledger replay depends on this ordering.
func GetEntriesByUser(db *sqlx.DB, guildID, userID string) ([]model.EscalationEntry, error) {
	var entries []model.EscalationEntry
	query := "SELECT * FROM escalation_entries WHERE guild_id = ? AND user_id = ? ORDER BY timestamp ASC, id ASC"
	if err := db.Select(&entries, query, guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to get escalation entries for user %s in guild %s: %w", userID, guildID, err)
	}
	return entries, nil
}

// UpsertPendingDeescalation creates or atomically replaces the single
// pending de-escalation row for a (guild, user) pair.
func UpsertPendingDeescalation(db *sqlx.DB, row model.PendingDeescalation) error {
	query := `INSERT OR REPLACE INTO pending_deescalations (guild_id, user_id, expire_at, amount)
			  VALUES (:guild_id, :user_id, :expire_at, :amount)`
	if _, err := db.NamedExec(query, row); err != nil {
		return fmt.Errorf("failed to upsert pending deescalation for user %s in guild %s: %w", row.UserID, row.GuildID, err)
	}
	return nil
}

// DeletePendingDeescalation removes the pending de-escalation row for a
// (guild, user) pair, if any.
func DeletePendingDeescalation(db *sqlx.DB, guildID, userID string) error {
	query := "DELETE FROM pending_deescalations WHERE guild_id = ? AND user_id = ?"
	if _, err := db.Exec(query, guildID, userID); err != nil {
		return fmt.Errorf("failed to delete pending deescalation for user %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}

// GetPendingDeescalation retrieves the pending de-escalation row for a
// (guild, user) pair. Returns nil if no row exists.
func GetPendingDeescalation(db *sqlx.DB, guildID, userID string) (*model.PendingDeescalation, error) {
	var row model.PendingDeescalation
	query := "SELECT * FROM pending_deescalations WHERE guild_id = ? AND user_id = ?"
	err := db.Get(&row, query, guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deescalation for user %s in guild %s: %w", userID, guildID, err)
	}
	return &row, nil
}

// GetExpiredDeescalations retrieves all pending de-escalations whose
// expiration has passed.
func GetExpiredDeescalations(db *sqlx.DB, now time.Time) ([]model.PendingDeescalation, error) {
	var rows []model.PendingDeescalation
	query := "SELECT * FROM pending_deescalations WHERE expire_at <= ? ORDER BY expire_at ASC"
	if err := db.Select(&rows, query, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to get expired deescalations: %w", err)
	}
	return rows, nil
}
