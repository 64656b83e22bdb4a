package moderation

import (
	"fmt"
	"time"

	"gatekeeper-bot/model"
	actions_db "gatekeeper-bot/utils/database/actions"

	"github.com/jmoiron/sqlx"
)

// ActionScheduler persists "run this action at time T" rows. Querying due
// rows does not delete them; the poller executes each action and then
// deletes its row, which makes delivery at-least-once: a crash between
// execute and delete re-executes the action on the next tick.
type ActionScheduler struct {
	db *sqlx.DB
}

// NewActionScheduler creates a scheduler over an initialized pending
// actions database.
func NewActionScheduler(db *sqlx.DB) *ActionScheduler {
	return &ActionScheduler{db: db}
}

// Schedule persists each action as one row, all inside one transaction.
func (s *ActionScheduler) Schedule(at time.Time, actions ...model.Action) error {
	rows := make([]model.PendingAction, 0, len(actions))
	for _, a := range actions {
		payload, err := a.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode action for scheduling: %w", err)
		}
		rows = append(rows, model.PendingAction{
			ExecuteAt: at.Unix(),
			Payload:   payload,
		})
	}
	return actions_db.AddPendingActions(s.db, rows)
}

// Due returns all rows due before now, ascending by execution timestamp.
func (s *ActionScheduler) Due(now time.Time) ([]model.PendingAction, error) {
	return actions_db.GetDuePendingActions(s.db, now)
}

// Delete removes a consumed row.
func (s *ActionScheduler) Delete(id int64) error {
	return actions_db.DeletePendingAction(s.db, id)
}

// QueueDepth returns the number of rows currently scheduled.
func (s *ActionScheduler) QueueDepth() (int, error) {
	return actions_db.CountPendingActions(s.db)
}
