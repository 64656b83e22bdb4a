package handlers

import (
	"fmt"
	"time"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const defaultLockdownDuration = time.Hour

// HandleLockdownCommand declares or lifts a guild lockdown window. While
// locked down, every join is rejected pending manual review.
func HandleLockdownCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	action := ""
	if opt, ok := optionMap["action"]; ok {
		action = opt.StringValue()
	}

	guardCfg, _ := b.GuardConfigFor(i.GuildID)

	switch action {
	case "on":
		duration := defaultLockdownDuration
		if opt, ok := optionMap["duration"]; ok {
			parsed, err := utils.ParseDuration(opt.StringValue())
			if err != nil {
				utils.SendErrorResponse(s, i, fmt.Sprintf("Invalid duration: %v", err))
				return
			}
			duration = parsed
		}
		until := time.Now().Add(duration)
		b.SetLockdown(i.GuildID, until)
		utils.SendSimpleResponse(s, i, fmt.Sprintf("🔒 Lockdown declared until <t:%d>.", until.Unix()))
		utils.SendModLogText(s, guardCfg.ModLogChannelID,
			fmt.Sprintf("🔒 <@%s> declared a lockdown until <t:%d>. All joins will be held for manual review.",
				i.Member.User.ID, until.Unix()))
	case "off":
		b.SetLockdown(i.GuildID, time.Time{})
		utils.SendSimpleResponse(s, i, "🔓 Lockdown lifted.")
		utils.SendModLogText(s, guardCfg.ModLogChannelID,
			fmt.Sprintf("🔓 <@%s> lifted the lockdown.", i.Member.User.ID))
	default:
		utils.SendErrorResponse(s, i, "Unknown lockdown action.")
	}
}
