package help

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
)

const noChannelsMessage = "No text channels available to send messages to."

// Channels is the slice of the Discord API send_to_all needs.
type Channels interface {
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	CanSend(channelID string) bool
	Send(channelID, content string) error
}

// sessionChannels serves Channels from a live session as the bot user.
type sessionChannels struct {
	s *discordgo.Session
}

func (c sessionChannels) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	return c.s.GuildChannels(guildID)
}

func (c sessionChannels) CanSend(channelID string) bool {
	perms, err := c.s.UserChannelPermissions(c.s.State.User.ID, channelID)
	if err != nil {
		return false
	}
	required := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)
	return perms&required == required
}

func (c sessionChannels) Send(channelID, content string) error {
	_, err := c.s.ChannelMessageSend(channelID, content)
	return err
}

// BroadcastHandler handles the send_to_all command.
type BroadcastHandler struct {
	channels func(s *discordgo.Session) Channels
}

// NewBroadcastHandler creates a BroadcastHandler that talks to the invoking session.
func NewBroadcastHandler() *BroadcastHandler {
	return &BroadcastHandler{
		channels: func(s *discordgo.Session) Channels { return sessionChannels{s: s} },
	}
}

// Handle posts the message in every text channel of the guild the bot can
// write to. Channels that fail are skipped.
func (h *BroadcastHandler) Handle(s *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	message := strings.TrimSpace(inv.String("message"))
	if message == "" {
		return r.Reply(&bot.Reply{Content: "Message cannot be empty.", Ephemeral: true})
	}
	if inv.GuildID == 0 {
		return r.Reply(&bot.Reply{Content: "This command can only be used in a server.", Ephemeral: true})
	}

	return r.DeferThenFollowUp(true, func() (*bot.Reply, error) {
		channels := h.channels(s)

		all, err := channels.GuildChannels(inv.GuildID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to list guild channels: %w", err)
		}

		sent := 0
		for _, ch := range all {
			if ch.Type != discordgo.ChannelTypeGuildText || !channels.CanSend(ch.ID) {
				continue
			}
			if err := channels.Send(ch.ID, message); err != nil {
				slog.Warn("failed to send broadcast message",
					"guild", inv.GuildID,
					"channel", ch.ID,
					"error", err,
				)
				continue
			}
			sent++
		}

		if sent == 0 {
			return &bot.Reply{Content: noChannelsMessage, Ephemeral: true}, nil
		}
		return &bot.Reply{Content: fmt.Sprintf("Message sent to %d channels.", sent), Ephemeral: true}, nil
	})
}
