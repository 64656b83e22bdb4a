package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Questionable-tier validators match names against guild-configured
// blocklists and against the guild's own moderators.

// UsernameBlocklistValidator rejects members whose username or nickname
// exactly matches a blocklisted name, case-insensitively.
type UsernameBlocklistValidator struct {
	Blocklist []string
}

func (v *UsernameBlocklistValidator) Name() string { return "username_blocklist" }

func (v *UsernameBlocklistValidator) Contribute(ctx *Context) error {
	for _, name := range ctx.Names() {
		for _, blocked := range v.Blocklist {
			if strings.EqualFold(name, blocked) {
				ctx.AddRejectionReason(fmt.Sprintf("Name %q matches a blocklisted name", name))
				return nil
			}
		}
	}
	return nil
}

var nameSeparators = regexp.MustCompile(`[\s._\-|]+`)

// SpacedNameValidator catches blocklisted patterns written with separators
// between the letters ("s p a m b o t"). Names and patterns are lowered
// and stripped of separators before a substring match.
type SpacedNameValidator struct {
	Patterns []string
}

func (v *SpacedNameValidator) Name() string { return "spaced_name" }

func (v *SpacedNameValidator) Contribute(ctx *Context) error {
	for _, name := range ctx.Names() {
		collapsed := collapseName(name)
		for _, pattern := range v.Patterns {
			p := collapseName(pattern)
			if p != "" && strings.Contains(collapsed, p) {
				ctx.AddRejectionReason(fmt.Sprintf("Name %q matches the pattern %q", name, pattern))
				return nil
			}
		}
	}
	return nil
}

func collapseName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "")
}

// NameSimilarityValidator rejects members sharing a name token with a
// moderator or with this bot. Tokens are compared case-insensitively and
// tokens shorter than MinTokenLength are ignored to avoid false positives
// on short common words.
type NameSimilarityValidator struct {
	MinTokenLength int
}

func (v *NameSimilarityValidator) Name() string { return "name_similarity" }

func (v *NameSimilarityValidator) Contribute(ctx *Context) error {
	minLen := v.MinTokenLength
	if minLen <= 0 {
		minLen = 4
	}

	memberTokens := make(map[string]struct{})
	for _, name := range ctx.Names() {
		for _, token := range nameTokens(name, minLen) {
			memberTokens[token] = struct{}{}
		}
	}
	if len(memberTokens) == 0 {
		return nil
	}

	for _, moderator := range ctx.ModeratorNames {
		for _, token := range nameTokens(moderator, minLen) {
			if _, ok := memberTokens[token]; ok {
				ctx.AddRejectionReason(fmt.Sprintf("Name is similar to moderator %q", moderator))
				return nil
			}
		}
	}
	return nil
}

func nameTokens(name string, minLen int) []string {
	var tokens []string
	for _, token := range nameSeparators.Split(strings.ToLower(name), -1) {
		if len(token) >= minLen {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
