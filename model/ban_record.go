package model

// BanRecord mirrors a ban observed in a guild the bot is a member of.
// The database table will be named 'guild_bans'.
type BanRecord struct {
	GuildID    string `db:"guild_id"`
	UserID     string `db:"user_id"`
	Username   string `db:"username"`
	Avatar     string `db:"avatar"` // avatar hash at ban time
	Reason     string `db:"reason"`
	GuildSize  int    `db:"guild_size"` // member count when the ban was recorded
	Unreliable bool   `db:"unreliable"` // bans from this guild are excluded from lookups
	Timestamp  int64  `db:"timestamp"`
}
