package handlers

import (
	"time"

	"gatekeeper-bot/bot"
	"gatekeeper-bot/model"
	bans_db "gatekeeper-bot/utils/database/bans"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// HandleGuildBanAdd mirrors a new ban into the ban index consumed by the
// cross-guild and own-banlist validators.
func HandleGuildBanAdd(s *discordgo.Session, e *discordgo.GuildBanAdd, b *bot.Bot) {
	record := model.BanRecord{
		GuildID:   e.GuildID,
		UserID:    e.User.ID,
		Username:  e.User.Username,
		Avatar:    e.User.Avatar,
		GuildSize: guildMemberCount(s, e.GuildID),
		Timestamp: time.Now().Unix(),
	}

	// The gateway event does not carry the reason; ask the API for it.
	if ban, err := s.GuildBan(e.GuildID, e.User.ID); err == nil {
		record.Reason = ban.Reason
	}

	if err := bans_db.UpsertBan(b.BansDB, record); err != nil {
		logrus.WithFields(logrus.Fields{
			"guild_id": e.GuildID,
			"user_id":  e.User.ID,
			"error":    err,
		}).Error("Failed to record ban")
	}
}

// HandleGuildBanRemove drops a lifted ban from the ban index.
func HandleGuildBanRemove(s *discordgo.Session, e *discordgo.GuildBanRemove, b *bot.Bot) {
	if err := bans_db.DeleteBan(b.BansDB, e.GuildID, e.User.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"guild_id": e.GuildID,
			"user_id":  e.User.ID,
			"error":    err,
		}).Error("Failed to remove recorded ban")
	}
}

func guildMemberCount(s *discordgo.Session, guildID string) int {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild.MemberCount
	}
	return 0
}
