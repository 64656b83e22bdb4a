package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Suspicion-tier validators flag weak signals common to throwaway accounts.

// NewAccountValidator rejects accounts younger than a configured age.
type NewAccountValidator struct {
	MinAge time.Duration
}

func (v *NewAccountValidator) Name() string { return "new_account" }

func (v *NewAccountValidator) Contribute(ctx *Context) error {
	created, err := discordgo.SnowflakeTimestamp(ctx.Member.User.ID)
	if err != nil {
		return fmt.Errorf("failed to parse account creation time: %w", err)
	}
	if ctx.Now.Sub(created) < v.MinAge {
		ctx.AddRejectionReason(fmt.Sprintf("Account is less than %s old (created %s)",
			formatAge(v.MinAge), created.Format("2006-01-02")))
	}
	return nil
}

// NoAvatarValidator rejects accounts that never set an avatar.
type NoAvatarValidator struct{}

func (v *NoAvatarValidator) Name() string { return "no_avatar" }

func (v *NoAvatarValidator) Contribute(ctx *Context) error {
	if ctx.Member.User.Avatar == "" {
		ctx.AddRejectionReason("User has no avatar")
	}
	return nil
}

var deletedNamePattern = regexp.MustCompile(`(?i)^deleted[ _]?user[ _]?[0-9a-f]*$`)

// DeletedAccountValidator rejects members that look like the husk of a
// deleted account: the platform's placeholder name and no avatar.
type DeletedAccountValidator struct{}

func (v *DeletedAccountValidator) Name() string { return "deleted_account" }

func (v *DeletedAccountValidator) Contribute(ctx *Context) error {
	if ctx.Member.User.Avatar != "" {
		return nil
	}
	if deletedNamePattern.MatchString(ctx.Member.User.Username) {
		ctx.AddRejectionReason("User has the name of a deleted account")
	}
	return nil
}

func formatAge(d time.Duration) string {
	if d >= 24*time.Hour && d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%d days", int(d/(24*time.Hour)))
	}
	return d.String()
}
