package actions

import (
	"fmt"
	"time"

	"gatekeeper-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddPendingActions persists one row per action inside a single transaction.
func AddPendingActions(db *sqlx.DB, rows []model.PendingAction) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin pending actions transaction: %w", err)
	}

	query := `INSERT INTO pending_actions (execute_at, payload) VALUES (:execute_at, :payload)`
	for _, row := range rows {
		if _, err := tx.NamedExec(query, row); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert pending action: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pending actions: %w", err)
	}
	return nil
}

// GetDuePendingActions retrieves all rows due before the given time,
// ascending by execution timestamp. Rows are not deleted; the caller
// executes each action and then deletes its row.
func GetDuePendingActions(db *sqlx.DB, now time.Time) ([]model.PendingAction, error) {
	var rows []model.PendingAction
	query := "SELECT * FROM pending_actions WHERE execute_at < ? ORDER BY execute_at ASC, id ASC"
	if err := db.Select(&rows, query, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to get due pending actions: %w", err)
	}
	return rows, nil
}

// DeletePendingAction deletes a pending action row by its ID.
func DeletePendingAction(db *sqlx.DB, id int64) error {
	result, err := db.Exec("DELETE FROM pending_actions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pending action %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for pending action %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no pending action found with id %d", id)
	}
	return nil
}

// CountPendingActions returns the number of rows currently queued.
func CountPendingActions(db *sqlx.DB) (int, error) {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM pending_actions"); err != nil {
		return 0, fmt.Errorf("failed to count pending actions: %w", err)
	}
	return count, nil
}
