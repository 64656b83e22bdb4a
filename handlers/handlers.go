package handlers

import (
	"gatekeeper-bot/bot"
	"gatekeeper-bot/handlers/escalate"
	"gatekeeper-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"escalate": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			escalate.HandleEscalateCommand(s, i, b)
		},
		"deescalate": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			escalate.HandleDeescalateCommand(s, i, b)
		},
		"escalate-history": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			escalate.HandleHistoryCommand(s, i, b)
		},
		"lockdown": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			HandleLockdownCommand(s, i, b)
		},
		"guard-status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

// requireAdmin rejects the interaction unless the member holds a
// configured admin role or is a bot owner.
func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) bool {
	guardCfg, ok := b.GuardConfigFor(i.GuildID)
	if !ok {
		logrus.WithField("guild_id", i.GuildID).Warn("Could not find guard config for guild")
		return false
	}
	level := utils.CheckPermission(i.Member.Roles, i.Member.User.ID, guardCfg.AdminRoleIDs, b.GetConfig().OwnerUserIDs)
	if level == utils.GuestPermission {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return false
	}
	return true
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logrus.Infof("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		HandleGuildMemberAdd(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildBanAdd) {
		HandleGuildBanAdd(s, e, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildBanRemove) {
		HandleGuildBanRemove(s, e, b)
	})
}
