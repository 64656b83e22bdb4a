package validation

import (
	"fmt"
	"testing"
	"time"

	"gatekeeper-bot/model"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	name       string
	contribute func(ctx *Context) error
}

func (v *stubValidator) Name() string                { return v.name }
func (v *stubValidator) Contribute(ctx *Context) error { return v.contribute(ctx) }

func approver(reason string) Validator {
	return &stubValidator{name: "approver", contribute: func(ctx *Context) error {
		ctx.AddApprovalReason(reason)
		return nil
	}}
}

func rejector(reason string) Validator {
	return &stubValidator{name: "rejector", contribute: func(ctx *Context) error {
		ctx.AddRejectionReason(reason)
		return nil
	}}
}

func testContext() *Context {
	member := &discordgo.Member{User: &discordgo.User{ID: "100", Username: "newcomer"}}
	ctx := NewContext(member, &model.GuardConfig{GuildID: "g1"})
	ctx.Now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return ctx
}

func TestChainLastDecisionWins(t *testing.T) {
	t.Run("approval after rejection approves", func(t *testing.T) {
		ctx := testContext()
		NewChain(rejector("looks suspicious"), approver("trusted anyway")).Run(ctx)

		assert.True(t, ctx.Approved())
		assert.Equal(t, []string{"trusted anyway"}, ctx.ApprovalReasons)
		assert.Equal(t, []string{"looks suspicious"}, ctx.RejectionReasons)
	})

	t.Run("rejection after approval rejects", func(t *testing.T) {
		ctx := testContext()
		NewChain(approver("trusted"), rejector("banned elsewhere")).Run(ctx)

		assert.False(t, ctx.Approved())
		assert.Equal(t, []string{"trusted"}, ctx.ApprovalReasons)
		assert.Equal(t, []string{"banned elsewhere"}, ctx.RejectionReasons)
	})
}

func TestChainReasonCountDoesNotMatter(t *testing.T) {
	ctx := testContext()
	NewChain(
		rejector("reason one"),
		rejector("reason two"),
		rejector("reason three"),
		approver("single approval"),
	).Run(ctx)

	assert.True(t, ctx.Approved())
	assert.Len(t, ctx.RejectionReasons, 3)
}

func TestChainUndecidedApproves(t *testing.T) {
	silent := &stubValidator{name: "silent", contribute: func(ctx *Context) error { return nil }}
	ctx := testContext()
	NewChain(silent, silent).Run(ctx)

	assert.True(t, ctx.Approved())
	assert.Equal(t, VerdictUndecided, ctx.Verdict())
	assert.Empty(t, ctx.ApprovalReasons)
	assert.Empty(t, ctx.RejectionReasons)
}

func TestChainFailedValidatorContributesNothing(t *testing.T) {
	failing := &stubValidator{name: "failing", contribute: func(ctx *Context) error {
		ctx.AddRejectionReason("partial decision")
		return fmt.Errorf("backend unavailable")
	}}

	ctx := testContext()
	NewChain(approver("trusted"), failing).Run(ctx)

	assert.True(t, ctx.Approved(), "a failed validator's verdict change must be rolled back")
	assert.Empty(t, ctx.RejectionReasons)
	assert.Equal(t, []string{"trusted"}, ctx.ApprovalReasons)
}

func TestChainContinuesAfterFailedValidator(t *testing.T) {
	failing := &stubValidator{name: "failing", contribute: func(ctx *Context) error {
		return fmt.Errorf("backend unavailable")
	}}

	ctx := testContext()
	NewChain(failing, rejector("banned elsewhere")).Run(ctx)

	assert.False(t, ctx.Approved())
	assert.Equal(t, []string{"banned elsewhere"}, ctx.RejectionReasons)
}

func TestContextNames(t *testing.T) {
	member := &discordgo.Member{
		User: &discordgo.User{ID: "100", Username: "alpha", GlobalName: "Alpha"},
		Nick: "beta",
	}
	ctx := NewContext(member, &model.GuardConfig{GuildID: "g1"})

	assert.Equal(t, []string{"alpha", "beta"}, ctx.Names())
}
