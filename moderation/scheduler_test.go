package moderation

import (
	"path/filepath"
	"testing"
	"time"

	"gatekeeper-bot/model"
	actions_db "gatekeeper-bot/utils/database/actions"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestActionsDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := actions_db.Init(filepath.Join(t.TempDir(), "actions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestScheduleAndDue(t *testing.T) {
	s := NewActionScheduler(newTestActionsDB(t))
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := s.Schedule(at, model.Action{Kind: model.ActionMute, GuildID: "g1", UserID: "u1", Status: model.StatusUnapply})
	require.NoError(t, err)

	// Not yet due before or exactly at the execution time.
	due, err := s.Due(at.Add(-time.Minute))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = s.Due(at)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = s.Due(at.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, due, 1)

	action, err := due[0].Action()
	require.NoError(t, err)
	assert.Equal(t, model.ActionMute, action.Kind)
	assert.Equal(t, "g1", action.GuildID)
	assert.Equal(t, "u1", action.UserID)
	assert.Equal(t, model.StatusUnapply, action.Status)
}

func TestDueOrdersByExecutionTime(t *testing.T) {
	s := NewActionScheduler(newTestActionsDB(t))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Schedule(base.Add(2*time.Hour), model.Action{Kind: model.ActionKick, GuildID: "g1", UserID: "later"}))
	require.NoError(t, s.Schedule(base, model.Action{Kind: model.ActionKick, GuildID: "g1", UserID: "sooner"}))

	due, err := s.Due(base.Add(3 * time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 2)

	first, err := due[0].Action()
	require.NoError(t, err)
	second, err := due[1].Action()
	require.NoError(t, err)
	assert.Equal(t, "sooner", first.UserID)
	assert.Equal(t, "later", second.UserID)
}

func TestScheduleBatchIsOneTransaction(t *testing.T) {
	s := NewActionScheduler(newTestActionsDB(t))
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := s.Schedule(at,
		model.Action{Kind: model.ActionMute, GuildID: "g1", UserID: "u1", Status: model.StatusUnapply},
		model.Action{Kind: model.ActionDeafen, GuildID: "g1", UserID: "u1", Status: model.StatusUnapply},
	)
	require.NoError(t, err)

	depth, err := s.QueueDepth()
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestDeleteConsumesRow(t *testing.T) {
	s := NewActionScheduler(newTestActionsDB(t))
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Schedule(at, model.Action{Kind: model.ActionKick, GuildID: "g1", UserID: "u1"}))

	due, err := s.Due(at.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, due, 1)
	id := due[0].ID

	require.NoError(t, s.Delete(id))

	due, err = s.Due(at.Add(time.Second))
	require.NoError(t, err)
	assert.Empty(t, due)

	// Deleting an already consumed row is an error, not a no-op.
	assert.Error(t, s.Delete(id))
}

func TestQueueDepth(t *testing.T) {
	s := NewActionScheduler(newTestActionsDB(t))
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	depth, err := s.QueueDepth()
	require.NoError(t, err)
	assert.Zero(t, depth)

	require.NoError(t, s.Schedule(at, model.Action{Kind: model.ActionKick, GuildID: "g1", UserID: "u1"}))
	require.NoError(t, s.Schedule(at.Add(time.Hour), model.Action{Kind: model.ActionKick, GuildID: "g1", UserID: "u2"}))

	depth, err = s.QueueDepth()
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}
