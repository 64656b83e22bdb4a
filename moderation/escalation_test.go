package moderation

import (
	"path/filepath"
	"testing"
	"time"

	"gatekeeper-bot/model"
	escalation_db "gatekeeper-bot/utils/database/escalation"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayLevel(t *testing.T) {
	tests := []struct {
		name   string
		deltas []int
		want   int
	}{
		{"empty ledger", nil, -1},
		{"single escalation", []int{1}, 0},
		{"up and down", []int{1, 1, -1, 1}, 1},
		{"never below floor", []int{-1, -1, -1}, -1},
		{"floor then climb", []int{-1, -1, 1, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []model.EscalationEntry
			for _, d := range tt.deltas {
				entries = append(entries, model.EscalationEntry{LevelDelta: d})
			}
			assert.Equal(t, tt.want, ReplayLevel(entries))
		})
	}
}

func TestReplayLevelAfterEachEntry(t *testing.T) {
	deltas := []int{1, 1, -1, 1}
	want := []int{0, 1, 0, 1}

	var entries []model.EscalationEntry
	for i, d := range deltas {
		entries = append(entries, model.EscalationEntry{LevelDelta: d})
		assert.Equal(t, want[i], ReplayLevel(entries))
	}
}

func TestRungFor(t *testing.T) {
	ladder := model.EscalationLadder{Rungs: []model.LadderRung{
		{DisplayName: "Warning"},
		{DisplayName: "Temp mute"},
		{DisplayName: "Ban"},
	}}

	assert.Nil(t, RungFor(ladder, -1))
	assert.Equal(t, "Warning", RungFor(ladder, 0).DisplayName)
	assert.Equal(t, "Temp mute", RungFor(ladder, 1).DisplayName)
	assert.Equal(t, "Ban", RungFor(ladder, 2).DisplayName)
	// Levels past the top clamp to the top rung.
	assert.Equal(t, "Ban", RungFor(ladder, 5).DisplayName)
	assert.Equal(t, "Ban", RungFor(ladder, 100).DisplayName)

	assert.Nil(t, RungFor(model.EscalationLadder{}, 0))
}

const daySeconds = 24 * 60 * 60

func testLadder() model.EscalationLadder {
	return model.EscalationLadder{Rungs: []model.LadderRung{
		{
			DisplayName: "Warning",
			Action:      model.Action{Kind: model.ActionDirectMessage, Text: "You have been warned."},
		},
		{
			DisplayName:        "Kick",
			Action:             model.Action{Kind: model.ActionKick},
			DeescalationPeriod: 90 * daySeconds,
		},
		{
			DisplayName: "Ban",
			Action:      model.Action{Kind: model.ActionBan, Status: model.StatusApply},
		},
	}}
}

type escalationFixture struct {
	db       *sqlx.DB
	platform *fakePlatform
	manager  *EscalationManager
	now      time.Time
}

func newEscalationFixture(t *testing.T) *escalationFixture {
	t.Helper()
	db, err := escalation_db.Init(filepath.Join(t.TempDir(), "escalation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	platform := newFakePlatform()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	executor := newTestExecutor(platform, &fakeScheduler{}, now)
	manager := NewEscalationManager(db, executor)
	manager.now = func() time.Time { return now }

	return &escalationFixture{db: db, platform: platform, manager: manager, now: now}
}

func (f *escalationFixture) request(reason string) EscalationRequest {
	return EscalationRequest{
		GuildID:        "g1",
		UserID:         "u1",
		AuthorizerID:   "mod1",
		AuthorizerName: "Mod",
		Reason:         reason,
	}
}

func TestEscalateAppliesFirstRung(t *testing.T) {
	f := newEscalationFixture(t)

	result, err := f.manager.Escalate(testLadder(), f.request("spamming"))
	require.NoError(t, err)

	assert.Equal(t, 0, result.CurrentLevel)
	require.NotNil(t, result.CurrentRung)
	assert.Equal(t, "Warning", result.CurrentRung.DisplayName)
	require.NotNil(t, result.NextRung)
	assert.Equal(t, "Kick", result.NextRung.DisplayName)
	assert.Nil(t, result.Expiration, "the warning rung has no de-escalation window")

	assert.Equal(t, []string{"dm u1"}, f.platform.Calls())

	entries, err := f.manager.History("g1", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].LevelDelta)
	assert.Equal(t, "Warning", entries[0].DisplayName)
	assert.Equal(t, "mod1", entries[0].AuthorizerID)
	assert.Contains(t, entries[0].ActionsJSON, `"direct_message"`)
}

func TestEscalateStampsRungActionWithSubject(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := model.EscalationLadder{Rungs: []model.LadderRung{
		{DisplayName: "Mute", Action: model.Action{Kind: model.ActionMute, Status: model.StatusApply}},
	}}

	_, err := f.manager.Escalate(ladder, f.request("spamming"))
	require.NoError(t, err)

	assert.Equal(t, []string{"mute g1/u1=true"}, f.platform.Calls())

	entries, err := f.manager.History("g1", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ActionsJSON, `"guild_id":"g1"`)
	assert.Contains(t, entries[0].ActionsJSON, `"user_id":"u1"`)
	assert.Contains(t, entries[0].ActionsJSON, `"reason":"spamming"`)
}

func TestEscalateSchedulesAutomaticDeescalation(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	_, err := f.manager.Escalate(ladder, f.request("first"))
	require.NoError(t, err)

	result, err := f.manager.Escalate(ladder, f.request("second"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentLevel)
	require.NotNil(t, result.Expiration)
	assert.Equal(t, f.now.Unix()+90*daySeconds, result.Expiration.Unix())

	row, err := escalation_db.GetPendingDeescalation(f.db, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, f.now.Unix()+90*daySeconds, row.ExpireAt)
	assert.Equal(t, -1, row.Amount)
}

func TestEscalatePastWindowedRungClearsPending(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	for _, reason := range []string{"first", "second"} {
		_, err := f.manager.Escalate(ladder, f.request(reason))
		require.NoError(t, err)
	}

	// Level 2 is the ban rung, which has no window; the pending row from
	// the kick rung must go away.
	result, err := f.manager.Escalate(ladder, f.request("third"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.CurrentLevel)
	assert.Nil(t, result.Expiration)

	row, err := escalation_db.GetPendingDeescalation(f.db, "g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestPendingDeescalationIsReplacedNotDuplicated(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := model.EscalationLadder{Rungs: []model.LadderRung{
		{DisplayName: "Mute", Action: model.Action{Kind: model.ActionMute, Status: model.StatusApply}, DeescalationPeriod: daySeconds},
		{DisplayName: "Long mute", Action: model.Action{Kind: model.ActionMute, Status: model.StatusApply}, DeescalationPeriod: 7 * daySeconds},
	}}

	_, err := f.manager.Escalate(ladder, f.request("first"))
	require.NoError(t, err)
	_, err = f.manager.Escalate(ladder, f.request("second"))
	require.NoError(t, err)

	var count int
	require.NoError(t, f.db.Get(&count, "SELECT COUNT(*) FROM pending_deescalations WHERE guild_id = ? AND user_id = ?", "g1", "u1"))
	assert.Equal(t, 1, count)

	row, err := escalation_db.GetPendingDeescalation(f.db, "g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, f.now.Unix()+7*daySeconds, row.ExpireAt)
}

func TestDeescalateIsBookkeepingOnly(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	_, err := f.manager.Escalate(ladder, f.request("offense"))
	require.NoError(t, err)
	callsAfterEscalate := len(f.platform.Calls())

	result, err := f.manager.Deescalate(ladder, f.request("good behavior"))
	require.NoError(t, err)

	assert.Equal(t, -1, result.CurrentLevel)
	assert.Nil(t, result.CurrentRung)
	assert.Len(t, f.platform.Calls(), callsAfterEscalate, "de-escalation must not touch the platform")

	entries, err := f.manager.History("g1", "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -1, entries[1].LevelDelta)
	assert.Equal(t, "none", entries[1].DisplayName)
	assert.Contains(t, entries[1].ActionsJSON, `"escalate"`)
}

func TestDeescalateNeverDropsBelowFloor(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	for i := 0; i < 3; i++ {
		result, err := f.manager.Deescalate(ladder, f.request("mercy"))
		require.NoError(t, err)
		assert.Equal(t, -1, result.CurrentLevel)
	}

	level, err := f.manager.CurrentLevel("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, -1, level)
}

func TestEscalateRequiresReason(t *testing.T) {
	f := newEscalationFixture(t)

	_, err := f.manager.Escalate(testLadder(), f.request(""))
	assert.ErrorIs(t, err, ErrNoReason)

	entries, err := f.manager.History("g1", "u1")
	require.NoError(t, err)
	assert.Empty(t, entries, "a refused escalation must not touch the ledger")
}

func TestEscalateRequiresLadder(t *testing.T) {
	f := newEscalationFixture(t)

	_, err := f.manager.Escalate(model.EscalationLadder{}, f.request("spamming"))
	assert.ErrorIs(t, err, ErrNoLadder)
}

func TestEscalateClampsAboveTopRung(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	var result *EscalationResult
	var err error
	for i := 0; i < 5; i++ {
		result, err = f.manager.Escalate(ladder, f.request("again"))
		require.NoError(t, err)
	}

	assert.Equal(t, 4, result.CurrentLevel)
	assert.Equal(t, "Ban", result.CurrentRung.DisplayName)
	assert.Equal(t, "Ban", result.NextRung.DisplayName)
}

func TestPendingExpiration(t *testing.T) {
	f := newEscalationFixture(t)
	ladder := testLadder()

	expiration, err := f.manager.PendingExpiration("g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, expiration)

	_, err = f.manager.Escalate(ladder, f.request("first"))
	require.NoError(t, err)
	_, err = f.manager.Escalate(ladder, f.request("second"))
	require.NoError(t, err)

	expiration, err = f.manager.PendingExpiration("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, expiration)
	assert.Equal(t, f.now.Unix()+90*daySeconds, expiration.Unix())
}
