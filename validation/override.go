package validation

import (
	"fmt"
)

// Override-tier validators run last so their decision is final.

// PremiumValidator approves members who have paid for platform perks;
// throwaway raid accounts do not come with a subscription attached.
type PremiumValidator struct{}

func (v *PremiumValidator) Name() string { return "premium_perks" }

func (v *PremiumValidator) Contribute(ctx *Context) error {
	if ctx.Member.PremiumSince != nil {
		ctx.AddApprovalReason(fmt.Sprintf("User has had paid perks since %s",
			ctx.Member.PremiumSince.Format("2006-01-02")))
	}
	return nil
}

// LockdownValidator rejects everyone while the guild is in a declared
// lockdown window, pending manual review.
type LockdownValidator struct{}

func (v *LockdownValidator) Name() string { return "lockdown" }

func (v *LockdownValidator) Contribute(ctx *Context) error {
	if ctx.Now.Before(ctx.LockdownUntil) {
		ctx.AddRejectionReason("Server is in lockdown; all joins require manual review")
	}
	return nil
}

// BotOwnerValidator approves this bot's own account and its owners. It
// runs last of all: its approval overrides every earlier rejection.
type BotOwnerValidator struct {
	BotUserID    string
	OwnerUserIDs []string
}

func (v *BotOwnerValidator) Name() string { return "bot_owner" }

func (v *BotOwnerValidator) Contribute(ctx *Context) error {
	userID := ctx.Member.User.ID
	if userID == v.BotUserID {
		ctx.AddApprovalReason("User is this bot")
		return nil
	}
	for _, ownerID := range v.OwnerUserIDs {
		if userID == ownerID {
			ctx.AddApprovalReason("User is the bot's owner")
			return nil
		}
	}
	return nil
}
