package escalate

import (
	"fmt"
	"strings"
	"time"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/moderation"
	"gatekeeper-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const historyPageSize = 15

// HandleHistoryCommand renders a user's escalation ledger, current level
// and any pending automatic de-escalation.
func HandleHistoryCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if err := utils.DeferResponse(s, i, true); err != nil {
		logrus.WithField("error", err).Error("Failed to defer history response")
		return
	}

	entries, err := b.Escalations.History(i.GuildID, opts.TargetUser.ID)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Failed to fetch escalation history.")
		logrus.WithField("error", err).Error("Failed to fetch escalation history")
		return
	}

	level := moderation.ReplayLevel(entries)
	ladder, _ := b.LadderFor(i.GuildID)
	rung := moderation.RungFor(ladder, level)

	var lines []string
	start := 0
	if len(entries) > historyPageSize {
		start = len(entries) - historyPageSize
	}
	for _, entry := range entries[start:] {
		sign := "+"
		if entry.LevelDelta < 0 {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("<t:%d:d> %s%d **%s** by %s",
			entry.Timestamp, sign, entry.LevelDelta, entry.DisplayName, entry.AuthorizerName))
	}
	if len(lines) == 0 {
		lines = []string{"No escalation history."}
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", level), Inline: true},
		{Name: "Current rung", Value: rungName(rung), Inline: true},
	}
	if expiration, err := b.Escalations.PendingExpiration(i.GuildID, opts.TargetUser.ID); err == nil && expiration != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Auto de-escalation",
			Value:  fmt.Sprintf("<t:%d>", expiration.Unix()),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Escalation history for %s", opts.TargetUser.Username),
		Description: strings.Join(lines, "\n"),
		Color:       utils.ModLogColorInfo,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}
