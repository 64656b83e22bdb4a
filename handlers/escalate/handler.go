package escalate

import (
	"fmt"
	"time"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/model"
	"gatekeeper-bot/moderation"
	"gatekeeper-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// ParsedOptions holds the parsed options from an escalation command interaction.
type ParsedOptions struct {
	TargetUser *discordgo.User
	Reason     string
}

// parseOptions extracts and returns the command options from the interaction.
func parseOptions(s *discordgo.Session, i *discordgo.InteractionCreate) ParsedOptions {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	var reason string
	if reasonOpt, ok := optionMap["reason"]; ok {
		reason = reasonOpt.StringValue()
	}

	return ParsedOptions{
		TargetUser: optionMap["user"].UserValue(s),
		Reason:     reason,
	}
}

// HandleEscalateCommand raises a user one level on the punishment ladder
// and applies the new rung's action.
func HandleEscalateCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleLevelChange(s, i, b, true)
}

// HandleDeescalateCommand lowers a user one level. The change is recorded
// in the ledger but the previously applied punishment is not undone.
func HandleDeescalateCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	handleLevelChange(s, i, b, false)
}

func handleLevelChange(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, up bool) {
	opts := parseOptions(s, i)
	if err := utils.DeferResponse(s, i, false); err != nil {
		logrus.WithField("error", err).Error("Failed to defer escalation response")
		return
	}

	ladder, ok := b.LadderFor(i.GuildID)
	if !ok {
		utils.SendFollowUpError(s, i.Interaction, "This server has no escalation ladder configured.")
		return
	}

	req := moderation.EscalationRequest{
		GuildID:        i.GuildID,
		UserID:         opts.TargetUser.ID,
		AuthorizerID:   i.Member.User.ID,
		AuthorizerName: i.Member.User.Username,
		Reason:         opts.Reason,
	}

	var result *moderation.EscalationResult
	var err error
	if up {
		result, err = b.Escalations.Escalate(ladder, req)
	} else {
		result, err = b.Escalations.Deescalate(ladder, req)
	}
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, err.Error())
		return
	}

	verb := "escalated"
	if !up {
		verb = "de-escalated"
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("✅ %s has been %s.", opts.TargetUser.Username, verb))

	guardCfg, _ := b.GuardConfigFor(i.GuildID)
	embed := resultEmbed(opts.TargetUser, i.Member.User, opts.Reason, verb, result)
	utils.SendModLog(s, guardCfg.ModLogChannelID, embed)

	if up {
		notifyTarget(s, i.GuildID, opts.TargetUser, opts.Reason, result)
	}
}

// resultEmbed renders a level change for the mod log.
func resultEmbed(target, authorizer *discordgo.User, reason, verb string, result *moderation.EscalationResult) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: fmt.Sprintf("<@%s>", target.ID), Inline: true},
		{Name: "Moderator", Value: fmt.Sprintf("<@%s>", authorizer.ID), Inline: true},
		{Name: "Level", Value: fmt.Sprintf("%d", result.CurrentLevel), Inline: true},
		{Name: "Current rung", Value: rungName(result.CurrentRung), Inline: true},
		{Name: "Next rung", Value: rungName(result.NextRung), Inline: true},
		{Name: "Reason", Value: reason},
	}
	if result.Expiration != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Auto de-escalation",
			Value: fmt.Sprintf("<t:%d>", result.Expiration.Unix()),
		})
	}
	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("User %s", verb),
		Color:     utils.ModLogColorAction,
		Fields:    fields,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// notifyTarget sends a private message to the escalated user.
func notifyTarget(s *discordgo.Session, guildID string, target *discordgo.User, reason string, result *moderation.EscalationResult) {
	guildName := "a server"
	if guild, err := s.State.Guild(guildID); err == nil {
		guildName = guild.Name
	}

	description := fmt.Sprintf("You have received **%s** in **%s** for: **%s**.",
		rungName(result.CurrentRung), guildName, reason)
	if result.Expiration != nil {
		description += fmt.Sprintf(" Your standing will improve automatically on <t:%d>.", result.Expiration.Unix())
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Moderation notice",
		Description: description,
		Color:       utils.ModLogColorRejected,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	utils.SendPrivateEmbedMessage(s, target.ID, embed)
}

func rungName(rung *model.LadderRung) string {
	if rung == nil {
		return "none"
	}
	return rung.DisplayName
}
