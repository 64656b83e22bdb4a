package model

// PendingAction represents one scheduled action row in the database.
// The database table will be named 'pending_actions'.
type PendingAction struct {
	ID        int64  `db:"id"` // Primary Key, Auto-increment
	ExecuteAt int64  `db:"execute_at"`
	Payload   string `db:"payload"` // JSON-encoded Action
}

// Action decodes the serialized action carried by the row.
func (p PendingAction) Action() (Action, error) {
	return DecodeAction(p.Payload)
}
