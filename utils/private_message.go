package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// SendPrivateEmbedMessage sends a direct message with an embed to a user.
// Users with closed DMs are skipped silently.
func SendPrivateEmbedMessage(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user": userID, "error": err}).Warn("Failed to create private channel")
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		logrus.WithFields(logrus.Fields{"user": userID, "error": err}).Warn("Failed to send private message")
	}
}
