package handlers

import (
	"fmt"
	"strings"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/model"
	"gatekeeper-bot/utils"
	"gatekeeper-bot/validation"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// HandleGuildMemberAdd runs a joining member through the validator chain
// and either grants the validated role or reports the rejection for manual
// review. Either way the verdict and both reason lists go to the mod log.
func HandleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd, b *bot.Bot) {
	guardCfg, ok := b.GuardConfigFor(m.GuildID)
	if !ok {
		return
	}

	ctx := validation.NewContext(m.Member, &guardCfg)
	ctx.LockdownUntil = b.LockdownUntil(m.GuildID)
	ctx.ModeratorNames = moderatorNames(s, &guardCfg)

	chain := validation.DefaultChain(b.BansDB, &guardCfg, s.State.User.ID, b.GetConfig().OwnerUserIDs)
	chain.Run(ctx)

	if ctx.Approved() {
		grantValidatedRole(s, m.Member, guardCfg)
	}

	utils.SendModLog(s, guardCfg.ModLogChannelID, verdictEmbed(ctx))

	logrus.WithFields(logrus.Fields{
		"guild_id": m.GuildID,
		"user_id":  m.User.ID,
		"approved": ctx.Approved(),
	}).Info("Validated joining member")
}

// moderatorNames collects the names the similarity check compares against:
// cached members holding an admin role, plus this bot's own name.
func moderatorNames(s *discordgo.Session, guardCfg *model.GuardConfig) []string {
	names := []string{s.State.User.Username}

	guild, err := s.State.Guild(guardCfg.GuildID)
	if err != nil {
		return names
	}
	for _, member := range guild.Members {
		if member.User == nil {
			continue
		}
		for _, roleID := range member.Roles {
			if containsString(guardCfg.AdminRoleIDs, roleID) {
				names = append(names, member.User.Username)
				if member.Nick != "" {
					names = append(names, member.Nick)
				}
				break
			}
		}
	}
	return names
}

// grantValidatedRole grants the configured role, skipping members that
// already hold it.
func grantValidatedRole(s *discordgo.Session, member *discordgo.Member, guardCfg model.GuardConfig) {
	if guardCfg.ValidatedRoleID == "" {
		return
	}
	if containsString(member.Roles, guardCfg.ValidatedRoleID) {
		return
	}
	if err := s.GuildMemberRoleAdd(guardCfg.GuildID, member.User.ID, guardCfg.ValidatedRoleID); err != nil {
		logrus.WithFields(logrus.Fields{
			"guild_id": guardCfg.GuildID,
			"user_id":  member.User.ID,
			"role_id":  guardCfg.ValidatedRoleID,
			"error":    err,
		}).Error("Failed to grant validated role")
	}
}

// verdictEmbed renders a validation pass for the mod log.
func verdictEmbed(ctx *validation.Context) *discordgo.MessageEmbed {
	title := "Member approved"
	color := utils.ModLogColorApproved
	if !ctx.Approved() {
		title = "Member rejected — manual review needed"
		color = utils.ModLogColorRejected
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("<@%s> (%s)", ctx.Member.User.ID, ctx.Member.User.Username),
		Color:       color,
	}
	if len(ctx.ApprovalReasons) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Approval reasons",
			Value: "• " + strings.Join(ctx.ApprovalReasons, "\n• "),
		})
	}
	if len(ctx.RejectionReasons) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Rejection reasons",
			Value: "• " + strings.Join(ctx.RejectionReasons, "\n• "),
		})
	}
	return embed
}

func containsString(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}
