package model

// EscalationEntry is one append-only row of a user's escalation ledger.
// Entries are never mutated or deleted outside data-retention teardown.
type EscalationEntry struct {
	ID             int64  `db:"id"` // Primary Key, Auto-increment
	GuildID        string `db:"guild_id"`
	UserID         string `db:"user_id"`
	AuthorizerID   string `db:"authorizer_id"`
	AuthorizerName string `db:"authorizer_name"`
	DisplayName    string `db:"display_name"` // name of the rung applied
	Timestamp      int64  `db:"timestamp"`
	LevelDelta     int    `db:"level_delta"` // +1 or -1
	ActionsJSON    string `db:"actions_json"`
}

// PendingDeescalation is the single outstanding automatic level decrease
// for a (guild, user) pair. At most one row exists per pair.
type PendingDeescalation struct {
	GuildID  string `db:"guild_id"`
	UserID   string `db:"user_id"`
	ExpireAt int64  `db:"expire_at"`
	Amount   int    `db:"amount"`
}

// LadderRung is one level of an escalation ladder: a display name, the
// action template applied at that level, and an optional window in seconds
// after which the level automatically decays by one.
type LadderRung struct {
	DisplayName        string `json:"name"`
	Action             Action `json:"action"`
	DeescalationPeriod int64  `json:"deescalation_period,omitempty"`
}

// EscalationLadder is the ordered punishment ladder for a guild.
// Index 0 is the mildest rung.
type EscalationLadder struct {
	Rungs []LadderRung `json:"rungs"`
}
