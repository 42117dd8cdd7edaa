package presentation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// GuildPlayers reacts to gateway changes that affect a guild's player.
type GuildPlayers interface {
	HandleBotVoiceStateChange(ctx context.Context, guildID, channelID snowflake.ID)
	Teardown(ctx context.Context, guildID snowflake.ID)
}

// EventHandlers handles Discord gateway events for the music player.
type EventHandlers struct {
	botID   snowflake.ID
	players GuildPlayers
}

// NewEventHandlers creates a new EventHandlers.
func NewEventHandlers(botID snowflake.ID, players GuildPlayers) *EventHandlers {
	return &EventHandlers{
		botID:   botID,
		players: players,
	}
}

// HandleVoiceStateUpdate reconciles the player when the bot is moved or
// disconnected outside of a command.
func (h *EventHandlers) HandleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	// Only handle updates for the bot itself
	if event.VoiceState == nil || event.UserID != h.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	// An empty channel ID means disconnected.
	var channelID snowflake.ID
	if event.ChannelID != "" {
		channelID, err = snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
	}

	h.players.HandleBotVoiceStateChange(context.Background(), guildID, channelID)
}

// HandleGuildDelete releases the player of a guild the bot was removed from.
// Outages, reported as unavailable guilds, leave the player alone.
func (h *EventHandlers) HandleGuildDelete(_ *discordgo.Session, event *discordgo.GuildDelete) {
	if event.Guild == nil || event.Unavailable {
		return
	}

	guildID, err := snowflake.Parse(event.ID)
	if err != nil {
		slog.Error("failed to parse guild ID in guild delete", "error", err)
		return
	}

	slog.Info("removed from guild, tearing down player", "guild", guildID)
	h.players.Teardown(context.Background(), guildID)
}
