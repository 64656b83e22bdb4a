package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Embed colors for moderator-facing audit messages.
const (
	ModLogColorApproved = 3066993  // Green
	ModLogColorRejected = 15158332 // Red
	ModLogColorAction   = 15105570 // Orange
	ModLogColorInfo     = 3447003  // Blue
)

// SendModLog sends an audit embed to a guild's mod log channel. Delivery
// failures (missing channel, missing permission) are logged and swallowed;
// the mod log must never crash the flow that produced the message.
func SendModLog(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) {
	if channelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel_id": channelID,
			"error":      err,
		}).Warn("Failed to send mod log message")
	}
}

// SendModLogText sends a plain-text audit message to a guild's mod log channel.
func SendModLogText(s *discordgo.Session, channelID, text string) {
	if channelID == "" {
		return
	}
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel_id": channelID,
			"error":      err,
		}).Warn("Failed to send mod log message")
	}
}
