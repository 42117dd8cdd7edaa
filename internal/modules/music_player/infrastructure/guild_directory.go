package infrastructure

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
)

var (
	_ ports.VoiceStateProvider = (*GuildDirectory)(nil)
	_ ports.UserInfoProvider   = (*GuildDirectory)(nil)
)

// GuildDirectory answers member and voice lookups from the gateway state
// cache. Member lookups fall back to REST when the cache misses.
type GuildDirectory struct {
	state  *discordgo.State
	member func(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// NewGuildDirectory creates a GuildDirectory backed by the session.
func NewGuildDirectory(session *discordgo.Session) *GuildDirectory {
	return &GuildDirectory{state: session.State, member: session.GuildMember}
}

// UserVoiceChannel returns the voice channel the user sits in, or 0.
func (d *GuildDirectory) UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	guild, err := d.state.Guild(guildID.String())
	if errors.Is(err, discordgo.ErrStateNotFound) {
		// Not cached means no known voice state, e.g. in DMs.
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	d.state.RLock()
	defer d.state.RUnlock()
	return voiceChannelOf(guild.VoiceStates, userID.String())
}

func voiceChannelOf(states []*discordgo.VoiceState, userID string) (snowflake.ID, error) {
	for _, vs := range states {
		if vs.UserID == userID && vs.ChannelID != "" {
			return snowflake.Parse(vs.ChannelID)
		}
	}
	return 0, nil
}

// UserInfo returns the member's name and avatar as shown in the guild.
func (d *GuildDirectory) UserInfo(guildID, userID snowflake.ID) (*ports.UserInfo, error) {
	m, err := d.state.Member(guildID.String(), userID.String())
	if err != nil || m.User == nil {
		if m, err = d.member(guildID.String(), userID.String()); err != nil {
			return nil, fmt.Errorf("failed to fetch guild member: %w", err)
		}
	}
	return guildProfile(m), nil
}

// guildProfile resolves what the guild sees: nickname over global name over
// username, and the per-guild avatar over the account one.
func guildProfile(m *discordgo.Member) *ports.UserInfo {
	info := &ports.UserInfo{DisplayName: m.User.Username, AvatarURL: m.User.AvatarURL("")}
	switch {
	case m.Nick != "":
		info.DisplayName = m.Nick
	case m.User.GlobalName != "":
		info.DisplayName = m.User.GlobalName
	}
	if m.Avatar != "" {
		info.AvatarURL = m.AvatarURL("")
	}
	return info
}
