package moderation

import (
	"github.com/bwmarrin/discordgo"
)

// DiscordPlatform implements Platform against a live discordgo session.
type DiscordPlatform struct {
	Session *discordgo.Session
}

// NewDiscordPlatform wraps a discordgo session as the executor's platform.
func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{Session: s}
}

func (p *DiscordPlatform) KickMember(guildID, userID, reason string) error {
	return p.Session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (p *DiscordPlatform) BanMember(guildID, userID, reason string) error {
	return p.Session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (p *DiscordPlatform) UnbanMember(guildID, userID string) error {
	return p.Session.GuildBanDelete(guildID, userID)
}

func (p *DiscordPlatform) BanExists(guildID, userID string) (bool, error) {
	_, err := p.Session.GuildBan(guildID, userID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (p *DiscordPlatform) SetMute(guildID, userID string, muted bool) error {
	return p.Session.GuildMemberMute(guildID, userID, muted)
}

func (p *DiscordPlatform) MemberMuted(guildID, userID string) (bool, error) {
	member, err := p.Session.GuildMember(guildID, userID)
	if err != nil {
		return false, err
	}
	return member.Mute, nil
}

func (p *DiscordPlatform) SetDeafen(guildID, userID string, deafened bool) error {
	return p.Session.GuildMemberDeafen(guildID, userID, deafened)
}

func (p *DiscordPlatform) MemberDeafened(guildID, userID string) (bool, error) {
	member, err := p.Session.GuildMember(guildID, userID)
	if err != nil {
		return false, err
	}
	return member.Deaf, nil
}

func (p *DiscordPlatform) AddRole(guildID, userID, roleID string) error {
	return p.Session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (p *DiscordPlatform) RemoveRole(guildID, userID, roleID string) error {
	return p.Session.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (p *DiscordPlatform) MemberHasRole(guildID, userID, roleID string) (bool, error) {
	member, err := p.Session.GuildMember(guildID, userID)
	if err != nil {
		return false, err
	}
	for _, held := range member.Roles {
		if held == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (p *DiscordPlatform) SendDirectMessage(userID, text string) error {
	channel, err := p.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = p.Session.ChannelMessageSend(channel.ID, text)
	return err
}
