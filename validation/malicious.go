package validation

import (
	"fmt"
	"strings"

	bans_db "gatekeeper-bot/utils/database/bans"

	"github.com/jmoiron/sqlx"
)

// Malicious-tier validators check the ban index built from guilds the bot
// can see.

// CrossGuildBanValidator rejects members banned elsewhere. Only bans from
// guilds at or above MinGuildSize count, and guilds flagged unreliable are
// skipped entirely.
type CrossGuildBanValidator struct {
	DB           *sqlx.DB
	MinGuildSize int
}

func (v *CrossGuildBanValidator) Name() string { return "cross_guild_ban" }

func (v *CrossGuildBanValidator) Contribute(ctx *Context) error {
	records, err := bans_db.GetBansByUser(v.DB, ctx.Member.User.ID)
	if err != nil {
		return err
	}

	count := 0
	var reasons []string
	for _, record := range records {
		if record.GuildID == ctx.Guild.GuildID || record.Unreliable {
			continue
		}
		if record.GuildSize < v.MinGuildSize {
			continue
		}
		count++
		if record.Reason != "" {
			reasons = append(reasons, record.Reason)
		}
	}
	if count == 0 {
		return nil
	}

	reason := fmt.Sprintf("User is banned in %d other server(s)", count)
	if len(reasons) > 0 {
		reason += ": " + strings.Join(reasons, "; ")
	}
	ctx.AddRejectionReason(reason)
	return nil
}

// OwnBanMatchValidator rejects members whose username or avatar exactly
// matches an entry on this guild's own ban list, catching ban-evasion
// accounts re-made with the same identity.
type OwnBanMatchValidator struct {
	DB *sqlx.DB
}

func (v *OwnBanMatchValidator) Name() string { return "own_ban_match" }

func (v *OwnBanMatchValidator) Contribute(ctx *Context) error {
	records, err := bans_db.GetBansByGuild(v.DB, ctx.Guild.GuildID)
	if err != nil {
		return err
	}

	avatar := ctx.Member.User.Avatar
	for _, record := range records {
		if record.UserID == ctx.Member.User.ID {
			// The user's own prior ban was already lifted or they could
			// not have rejoined; identity matching targets fresh accounts.
			continue
		}
		for _, name := range ctx.Names() {
			if strings.EqualFold(name, record.Username) {
				ctx.AddRejectionReason(fmt.Sprintf("Name %q matches a banned user on this server", name))
				return nil
			}
		}
		if avatar != "" && avatar == record.Avatar {
			ctx.AddRejectionReason("Avatar matches a banned user on this server")
			return nil
		}
	}
	return nil
}
