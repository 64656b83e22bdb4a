package bans

import (
	"fmt"

	"gatekeeper-bot/model"

	"github.com/jmoiron/sqlx"
)

// UpsertBan records or refreshes a ban observed in a guild.
func UpsertBan(db *sqlx.DB, record model.BanRecord) error {
	query := `INSERT OR REPLACE INTO guild_bans (guild_id, user_id, username, avatar, reason, guild_size, unreliable, timestamp)
			  VALUES (:guild_id, :user_id, :username, :avatar, :reason, :guild_size, :unreliable, :timestamp)`
	if _, err := db.NamedExec(query, record); err != nil {
		return fmt.Errorf("failed to upsert ban for user %s in guild %s: %w", record.UserID, record.GuildID, err)
	}
	return nil
}

// DeleteBan removes a recorded ban after it is lifted.
func DeleteBan(db *sqlx.DB, guildID, userID string) error {
	query := "DELETE FROM guild_bans WHERE guild_id = ? AND user_id = ?"
	if _, err := db.Exec(query, guildID, userID); err != nil {
		return fmt.Errorf("failed to delete ban for user %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}

// GetBansByUser retrieves every recorded ban for a user across all guilds.
func GetBansByUser(db *sqlx.DB, userID string) ([]model.BanRecord, error) {
	var records []model.BanRecord
	query := "SELECT * FROM guild_bans WHERE user_id = ?"
	if err := db.Select(&records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get bans for user %s: %w", userID, err)
	}
	return records, nil
}

// GetBansByGuild retrieves every recorded ban issued by one guild.
func GetBansByGuild(db *sqlx.DB, guildID string) ([]model.BanRecord, error) {
	var records []model.BanRecord
	query := "SELECT * FROM guild_bans WHERE guild_id = ?"
	if err := db.Select(&records, query, guildID); err != nil {
		return nil, fmt.Errorf("failed to get bans for guild %s: %w", guildID, err)
	}
	return records, nil
}
