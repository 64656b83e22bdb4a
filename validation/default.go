package validation

import (
	"time"

	"gatekeeper-bot/model"
	"gatekeeper-bot/utils"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const defaultMinAccountAge = 30 * 24 * time.Hour

// DefaultChain assembles the standard validator order for a guild:
// suspicion, then questionable, then malicious, then overrides. The
// override tier must stay last; the final decision along the chain is the
// verdict.
func DefaultChain(bansDB *sqlx.DB, cfg *model.GuardConfig, botUserID string, ownerUserIDs []string) *Chain {
	minAge := defaultMinAccountAge
	if cfg.Validation.MinAccountAge != "" {
		parsed, err := utils.ParseDuration(cfg.Validation.MinAccountAge)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"guild_id": cfg.GuildID,
				"value":    cfg.Validation.MinAccountAge,
				"error":    err,
			}).Warn("Invalid min_account_age; using default")
		} else {
			minAge = parsed
		}
	}

	return NewChain(
		// Suspicion tier
		&NewAccountValidator{MinAge: minAge},
		&NoAvatarValidator{},
		&DeletedAccountValidator{},
		// Questionable tier
		&UsernameBlocklistValidator{Blocklist: cfg.Validation.UsernameBlocklist},
		&SpacedNameValidator{Patterns: cfg.Validation.SpacedNamePatterns},
		&NameSimilarityValidator{MinTokenLength: cfg.Validation.MinTokenLength},
		// Malicious tier
		&CrossGuildBanValidator{DB: bansDB, MinGuildSize: cfg.Validation.MinGuildSize},
		&OwnBanMatchValidator{DB: bansDB},
		// Override tier
		&PremiumValidator{},
		&LockdownValidator{},
		&BotOwnerValidator{BotUserID: botUserID, OwnerUserIDs: ownerUserIDs},
	)
}
