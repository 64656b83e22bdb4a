package moderation

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gatekeeper-bot/model"
	"gatekeeper-bot/utils"
	escalation_db "gatekeeper-bot/utils/database/escalation"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoReason is returned when an escalation is requested without a reason.
	ErrNoReason = errors.New("escalation requires a non-empty reason")
	// ErrNoLadder is returned when the guild has no escalation ladder configured.
	ErrNoLadder = errors.New("guild has no escalation ladder configured")
)

// Ledger appends use bounded retries with backoff to ride out transient
// database contention.
const (
	ledgerAppendAttempts = 5
	ledgerAppendBackoff  = 50 * time.Millisecond
)

// EscalationRequest identifies the subject of a level change and who
// authorized it.
type EscalationRequest struct {
	GuildID        string
	UserID         string
	AuthorizerID   string
	AuthorizerName string
	Reason         string
}

// EscalationResult reports the state after a level change.
type EscalationResult struct {
	CurrentRung  *model.LadderRung
	NextRung     *model.LadderRung
	CurrentLevel int
	// Expiration is set when the new rung schedules an automatic
	// de-escalation.
	Expiration *time.Time
}

// EscalationManager replays a user's ledger into a level, maps the level to
// a ladder rung, applies the rung's action, and keeps the single pending
// de-escalation row per (guild, user) current.
//
// Apply reads the ledger and then appends to it without a lock; two
// concurrent level changes for the same user can race on the replayed
// level. That matches the storage contract this engine is written against,
// which serializes conflicting writes but not read-then-append sequences.
type EscalationManager struct {
	db       *sqlx.DB
	executor *Executor
	log      *logrus.Entry
	now      func() time.Time
}

// NewEscalationManager creates a manager over an initialized escalation
// database and an executor for rung actions.
func NewEscalationManager(db *sqlx.DB, executor *Executor) *EscalationManager {
	return &EscalationManager{
		db:       db,
		executor: executor,
		log:      logrus.WithField("component", "escalation"),
		now:      time.Now,
	}
}

// Escalate raises the user's level by one and executes the new rung's action.
func (m *EscalationManager) Escalate(ladder model.EscalationLadder, req EscalationRequest) (*EscalationResult, error) {
	return m.Apply(ladder, req, 1, true)
}

// Deescalate lowers the user's level by one. De-escalation is bookkeeping
// only: it records the change but does not undo the rung's action.
func (m *EscalationManager) Deescalate(ladder model.EscalationLadder, req EscalationRequest) (*EscalationResult, error) {
	return m.Apply(ladder, req, -1, false)
}

// Apply performs a level change of diff. When execute is true the new
// rung's action template is stamped with the subject and executed; when
// false a bare escalate action records the change without side effects.
func (m *EscalationManager) Apply(ladder model.EscalationLadder, req EscalationRequest, diff int, execute bool) (*EscalationResult, error) {
	if req.Reason == "" {
		return nil, ErrNoReason
	}
	if len(ladder.Rungs) == 0 {
		return nil, ErrNoLadder
	}

	level, err := m.CurrentLevel(req.GuildID, req.UserID)
	if err != nil {
		return nil, err
	}
	newLevel := clampLevel(level + diff)
	newRung := RungFor(ladder, newLevel)

	var applied []model.Action
	if execute && newRung != nil {
		action := newRung.Action
		action.GuildID = req.GuildID
		action.UserID = req.UserID
		action.Reason = req.Reason
		m.executor.Execute(action)
		applied = append(applied, action)
	} else {
		applied = append(applied, model.Action{
			Kind:    model.ActionEscalate,
			GuildID: req.GuildID,
			UserID:  req.UserID,
			Reason:  req.Reason,
			Amount:  diff,
		})
	}

	actionsJSON, err := json.Marshal(applied)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize escalation actions: %w", err)
	}

	displayName := "none"
	if newRung != nil {
		displayName = newRung.DisplayName
	}
	entry := model.EscalationEntry{
		GuildID:        req.GuildID,
		UserID:         req.UserID,
		AuthorizerID:   req.AuthorizerID,
		AuthorizerName: req.AuthorizerName,
		DisplayName:    displayName,
		Timestamp:      m.now().Unix(),
		LevelDelta:     diff,
		ActionsJSON:    string(actionsJSON),
	}
	err = utils.Retry(ledgerAppendAttempts, ledgerAppendBackoff, func() error {
		_, appendErr := escalation_db.AddEntry(m.db, entry)
		return appendErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to append escalation entry: %w", err)
	}

	result := &EscalationResult{
		CurrentRung:  newRung,
		NextRung:     RungFor(ladder, newLevel+1),
		CurrentLevel: newLevel,
	}

	if newRung != nil && newRung.DeescalationPeriod > 0 {
		expireAt := entry.Timestamp + newRung.DeescalationPeriod
		err = escalation_db.UpsertPendingDeescalation(m.db, model.PendingDeescalation{
			GuildID:  req.GuildID,
			UserID:   req.UserID,
			ExpireAt: expireAt,
			Amount:   -1,
		})
		if err != nil {
			return nil, err
		}
		expiration := time.Unix(expireAt, 0)
		result.Expiration = &expiration
	} else {
		if err := escalation_db.DeletePendingDeescalation(m.db, req.GuildID, req.UserID); err != nil {
			return nil, err
		}
	}

	m.log.WithFields(logrus.Fields{
		"guild_id":   req.GuildID,
		"user_id":    req.UserID,
		"authorizer": req.AuthorizerID,
		"delta":      diff,
		"level":      newLevel,
		"rung":       displayName,
	}).Info("Escalation ledger updated")

	return result, nil
}

// CurrentLevel replays the user's ledger into a level. A user with no
// entries is at level -1 and subject to no rung.
func (m *EscalationManager) CurrentLevel(guildID, userID string) (int, error) {
	entries, err := escalation_db.GetEntriesByUser(m.db, guildID, userID)
	if err != nil {
		return 0, err
	}
	return ReplayLevel(entries), nil
}

// History returns the user's full ledger, ascending by timestamp.
func (m *EscalationManager) History(guildID, userID string) ([]model.EscalationEntry, error) {
	return escalation_db.GetEntriesByUser(m.db, guildID, userID)
}

// PendingExpiration returns the expiration of the user's scheduled
// de-escalation, or nil when none is pending.
func (m *EscalationManager) PendingExpiration(guildID, userID string) (*time.Time, error) {
	row, err := escalation_db.GetPendingDeescalation(m.db, guildID, userID)
	if err != nil || row == nil {
		return nil, err
	}
	expiration := time.Unix(row.ExpireAt, 0)
	return &expiration, nil
}

// ReplayLevel folds a ledger, taken in timestamp order, into a level.
// The level never drops below -1.
func ReplayLevel(entries []model.EscalationEntry) int {
	level := -1
	for _, entry := range entries {
		level = clampLevel(level + entry.LevelDelta)
	}
	return level
}

// RungFor maps a level onto a ladder rung: nil below level 0, and levels
// past the top rung clamp to the top rung.
func RungFor(ladder model.EscalationLadder, level int) *model.LadderRung {
	if level < 0 || len(ladder.Rungs) == 0 {
		return nil
	}
	if level >= len(ladder.Rungs) {
		level = len(ladder.Rungs) - 1
	}
	rung := ladder.Rungs[level]
	return &rung
}

func clampLevel(level int) int {
	if level < -1 {
		return -1
	}
	return level
}
