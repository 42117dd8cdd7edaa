package infrastructure

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

const colorRed = 0xE74C3C

// ControlAttacher supplies playback buttons for Now Playing messages and
// tracks the messages carrying them.
type ControlAttacher interface {
	Components(guildID snowflake.ID) []discordgo.MessageComponent
	Track(channelID, messageID, guildID snowflake.ID)
	Forget(messageID snowflake.ID)
}

var _ ports.NotificationSender = (*Notifier)(nil)

// Notifier posts player announcements to text channels.
type Notifier struct {
	session  *discordgo.Session
	checker  URLChecker
	controls ControlAttacher
}

// NewNotifier creates a Notifier. checker upgrades artwork to larger
// thumbnails when set. Now Playing messages carry no buttons until
// SetControls is called.
func NewNotifier(session *discordgo.Session, checker URLChecker) *Notifier {
	return &Notifier{session: session, checker: checker}
}

// SetControls attaches the playback buttons source. Call it before the first
// Now Playing message goes out.
func (n *Notifier) SetControls(controls ControlAttacher) {
	n.controls = controls
}

// SendNowPlaying posts the Now Playing embed with its controls and returns
// the new message's ID.
func (n *Notifier) SendNowPlaying(channelID snowflake.ID, info *ports.NowPlayingInfo) (snowflake.ID, error) {
	embed := nowPlayingEmbed(info)
	source := domain.ParseTrackSource(info.SourceName)
	if image := pickThumbnail(n.checker, source, info.Identifier, info.ArtworkURL); image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: image}
	}

	send := &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
	if n.controls != nil {
		send.Components = n.controls.Components(info.GuildID)
	}

	msg, err := n.session.ChannelMessageSendComplex(channelID.String(), send)
	if err != nil {
		return 0, fmt.Errorf("failed to send now playing message: %w", err)
	}
	messageID, err := snowflake.Parse(msg.ID)
	if err != nil {
		return 0, err
	}

	if n.controls != nil {
		n.controls.Track(channelID, messageID, info.GuildID)
	}
	return messageID, nil
}

// nowPlayingEmbed renders everything but the thumbnail, which needs network
// checking.
func nowPlayingEmbed(info *ports.NowPlayingInfo) *discordgo.MessageEmbed {
	source := domain.ParseTrackSource(info.SourceName)

	fields := []*discordgo.MessageEmbedField{{Name: "Artist", Value: info.Artist, Inline: true}}
	if !info.IsStream {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Duration", Value: info.Duration, Inline: true})
	}
	if info.QueueLength > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Up Next",
			Value:  fmt.Sprintf("%d in queue", info.QueueLength),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Author:    &discordgo.MessageEmbedAuthor{Name: "Now Playing", IconURL: source.IconURL()},
		Title:     info.Title,
		URL:       info.URI,
		Color:     source.Color(),
		Timestamp: info.EnqueuedAt.UTC().Format(time.RFC3339),
		Fields:    fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "Requested by " + info.RequesterName,
			IconURL: info.RequesterAvatarURL,
		},
	}
}

// DeleteMessage removes a Now Playing message and stops tracking its controls.
func (n *Notifier) DeleteMessage(channelID, messageID snowflake.ID) error {
	if n.controls != nil {
		n.controls.Forget(messageID)
	}
	return n.session.ChannelMessageDelete(channelID.String(), messageID.String())
}

// DisableControls greys out the buttons of a Now Playing message.
func (n *Notifier) DisableControls(channelID, messageID, guildID snowflake.ID) error {
	components := disabledComponents(n.controls, guildID)
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID.String(),
		ID:         messageID.String(),
		Components: &components,
	})
	return err
}

// disabledComponents returns a copy of the control rows with every button
// disabled. It is never nil so the edit clears the buttons when no controls
// are attached.
func disabledComponents(controls ControlAttacher, guildID snowflake.ID) []discordgo.MessageComponent {
	out := []discordgo.MessageComponent{}
	if controls == nil {
		return out
	}

	for _, c := range controls.Components(guildID) {
		row, ok := c.(discordgo.ActionsRow)
		if !ok {
			out = append(out, c)
			continue
		}
		disabled := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, len(row.Components))}
		for i, inner := range row.Components {
			if button, ok := inner.(discordgo.Button); ok {
				button.Disabled = true
				inner = button
			}
			disabled.Components[i] = inner
		}
		out = append(out, disabled)
	}
	return out
}

// SendError posts a red embed describing a playback failure.
func (n *Notifier) SendError(channelID snowflake.ID, message string) error {
	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), &discordgo.MessageEmbed{
		Description: message,
		Color:       colorRed,
	})
	return err
}
