package commands

import (
	"gatekeeper-bot/model"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands builds the slash command set for a guild running the
// guard engine.
func GenerateCommands(guardCfg *model.GuardConfig) []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "escalate",
			Description: "Escalate a user to the next rung of the punishment ladder.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to escalate.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the user is being escalated.",
					Required:    true,
				},
			},
		},
		{
			Name:        "deescalate",
			Description: "Lower a user's escalation level by one. Does not undo the applied punishment.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to de-escalate.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Why the user is being de-escalated.",
					Required:    true,
				},
			},
		},
		{
			Name:        "escalate-history",
			Description: "Show a user's escalation ledger and current level.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to look up.",
					Required:    true,
				},
			},
		},
		{
			Name:        "lockdown",
			Description: "Declare or lift a lockdown window. Joins during lockdown are held for manual review.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Whether to start or lift the lockdown.",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "on", Value: "on"},
						{Name: "off", Value: "off"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "Lockdown length, e.g. 2h or 1d. Defaults to 1h.",
					Required:    false,
				},
			},
		},
		{
			Name:        "guard-status",
			Description: "Show bot host stats and guard engine queue depths.",
		},
	}
}
