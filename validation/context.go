package validation

import (
	"strings"
	"time"

	"gatekeeper-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Verdict is the single outcome of a validation pass.
type Verdict int

const (
	VerdictUndecided Verdict = iota
	VerdictApproved
	VerdictRejected
)

// Context carries one joining member through the validator chain. It lives
// for the duration of one validation pass and is never persisted.
//
// The verdict is one field overwritten by every decision: whichever
// validator decides last in chain order wins, regardless of how many
// reasons the other side collected. Both reason lists are kept in full for
// the moderator-facing report.
type Context struct {
	Member *discordgo.Member
	Guild  *model.GuardConfig
	// ModeratorNames are the display names the similarity check compares
	// against, including this bot's own name.
	ModeratorNames []string
	LockdownUntil  time.Time
	Now            time.Time

	verdict          Verdict
	ApprovalReasons  []string
	RejectionReasons []string
}

// NewContext creates a context for one join event.
func NewContext(member *discordgo.Member, guild *model.GuardConfig) *Context {
	return &Context{
		Member: member,
		Guild:  guild,
		Now:    time.Now(),
	}
}

// AddApprovalReason appends a human-readable approval reason and sets the
// verdict to approved.
func (c *Context) AddApprovalReason(reason string) {
	c.ApprovalReasons = append(c.ApprovalReasons, reason)
	c.verdict = VerdictApproved
}

// AddRejectionReason appends a human-readable rejection reason and sets the
// verdict to rejected.
func (c *Context) AddRejectionReason(reason string) {
	c.RejectionReasons = append(c.RejectionReasons, reason)
	c.verdict = VerdictRejected
}

// Approved reports the final verdict. A member nothing decided on is
// approved.
func (c *Context) Approved() bool {
	return c.verdict != VerdictRejected
}

// Verdict returns the raw verdict state.
func (c *Context) Verdict() Verdict {
	return c.verdict
}

// Names returns every name the member goes by: username, global display
// name and guild nickname, without duplicates or blanks.
func (c *Context) Names() []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	if c.Member.User != nil {
		add(c.Member.User.Username)
		add(c.Member.User.GlobalName)
	}
	add(c.Member.Nick)
	return names
}
