package scanner

import (
	"errors"
	"time"

	"gatekeeper-bot/model"
	"gatekeeper-bot/moderation"
	escalation_db "gatekeeper-bot/utils/database/escalation"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// LadderLookup resolves the escalation ladder configured for a guild.
type LadderLookup func(guildID string) (model.EscalationLadder, bool)

// ProcessDeescalations applies every automatic de-escalation whose window
// has expired. The ledger append inside Apply refreshes or removes the
// pending row itself, so a row is only consumed once the change is
// recorded; failed rows stay and are retried on the next tick.
func ProcessDeescalations(db *sqlx.DB, manager *moderation.EscalationManager, ladders LadderLookup) {
	expired, err := escalation_db.GetExpiredDeescalations(db, time.Now())
	if err != nil {
		logrus.WithField("error", err).Error("Failed to query expired deescalations")
		return
	}

	for _, row := range expired {
		log := logrus.WithFields(logrus.Fields{
			"guild_id": row.GuildID,
			"user_id":  row.UserID,
		})

		ladder, ok := ladders(row.GuildID)
		if !ok {
			log.Warn("Guild no longer configured; dropping pending deescalation")
			if err := escalation_db.DeletePendingDeescalation(db, row.GuildID, row.UserID); err != nil {
				log.WithField("error", err).Error("Failed to delete orphaned deescalation")
			}
			continue
		}

		req := moderation.EscalationRequest{
			GuildID:        row.GuildID,
			UserID:         row.UserID,
			AuthorizerID:   "system",
			AuthorizerName: "Automatic",
			Reason:         "Automatic de-escalation",
		}
		if _, err := manager.Apply(ladder, req, row.Amount, false); err != nil {
			if errors.Is(err, moderation.ErrNoLadder) {
				if err := escalation_db.DeletePendingDeescalation(db, row.GuildID, row.UserID); err != nil {
					log.WithField("error", err).Error("Failed to delete orphaned deescalation")
				}
				continue
			}
			log.WithField("error", err).Error("Failed to apply automatic de-escalation")
			continue
		}
		log.Info("Applied automatic de-escalation")
	}
}
