package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// TrackEndedHandler advances a guild's player after the audio node finishes
// or abandons a track.
type TrackEndedHandler interface {
	HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent)
}

// NowPlayingRecorder remembers which message announces the current entry. It
// refuses, returning false, when the entry is no longer current.
type NowPlayingRecorder interface {
	SetNowPlayingMessage(guildID snowflake.ID, msg domain.NowPlayingMessage) bool
}

// SubscribeTrackEnds routes track-end events to the player.
func SubscribeTrackEnds(sub ports.EventSubscriber, player TrackEndedHandler) {
	sub.OnTrackEnded(player.HandleTrackEnded)
}

// unknownRequester is shown when the requester's profile cannot be fetched.
const unknownRequester = "Unknown"

// AnnouncerOptions are the optional collaborators of an Announcer.
type AnnouncerOptions struct {
	Users       ports.UserInfoProvider
	QueueLength func(guildID snowflake.ID) int
}

// Announcer keeps each guild's notification channel in step with playback.
// It posts Now Playing messages, removes stale ones and reports failures.
type Announcer struct {
	notifier ports.NotificationSender
	recorder NowPlayingRecorder
	opts     AnnouncerOptions
}

// NewAnnouncer creates an Announcer.
func NewAnnouncer(notifier ports.NotificationSender, recorder NowPlayingRecorder, opts AnnouncerOptions) *Announcer {
	return &Announcer{notifier: notifier, recorder: recorder, opts: opts}
}

// Subscribe attaches the announcer to the player's events.
func (a *Announcer) Subscribe(sub ports.EventSubscriber) {
	sub.OnPlaybackStarted(a.announce)
	sub.OnPlaybackFinished(a.retire)
	sub.OnPlaybackFailed(a.reportFailure)
}

func (a *Announcer) announce(_ context.Context, e domain.PlaybackStartedEvent) {
	if e.NotificationChannelID == 0 || e.Entry == nil {
		return
	}

	info := a.nowPlayingInfo(e.GuildID, e.Entry)
	messageID, err := a.notifier.SendNowPlaying(e.NotificationChannelID, info)
	if err != nil {
		slog.Error("failed to announce now playing",
			"guild", e.GuildID,
			"channel", e.NotificationChannelID,
			"error", err,
		)
		return
	}

	msg := domain.NewNowPlayingMessage(e.NotificationChannelID, messageID, e.Entry.ID)
	if !a.recorder.SetNowPlayingMessage(e.GuildID, msg) {
		// Playback moved on while the message was being sent.
		slog.Debug("removing announcement for an entry that already ended",
			"guild", e.GuildID,
			"message_id", messageID,
		)
		a.delete(e.GuildID, msg)
	}
}

func (a *Announcer) nowPlayingInfo(guildID snowflake.ID, entry *domain.QueueEntry) *ports.NowPlayingInfo {
	track := entry.Track
	info := &ports.NowPlayingInfo{
		GuildID:       guildID,
		Identifier:    track.Identifier,
		Title:         track.Title,
		Artist:        track.Artist,
		Duration:      track.DurationLabel(),
		URI:           track.URI,
		ArtworkURL:    track.ArtworkURL,
		SourceName:    track.SourceName,
		IsStream:      track.IsStream,
		RequesterID:   entry.RequesterID,
		RequesterName: unknownRequester,
		EnqueuedAt:    entry.EnqueuedAt,
	}

	if a.opts.QueueLength != nil {
		info.QueueLength = a.opts.QueueLength(guildID)
	}
	if a.opts.Users == nil {
		return info
	}

	user, err := a.opts.Users.UserInfo(guildID, entry.RequesterID)
	if err != nil {
		slog.Warn("failed to look up requester",
			"guild", guildID,
			"requester", entry.RequesterID,
			"error", err,
		)
		return info
	}
	info.RequesterName = user.DisplayName
	info.RequesterAvatarURL = user.AvatarURL
	return info
}

func (a *Announcer) retire(_ context.Context, e domain.PlaybackFinishedEvent) {
	a.delete(e.GuildID, e.Message)
}

func (a *Announcer) reportFailure(_ context.Context, e domain.PlaybackFailedEvent) {
	if e.NotificationChannelID == 0 {
		return
	}

	text := "Failed to play the track."
	if e.Entry != nil && e.Entry.Track != nil {
		text = fmt.Sprintf("Failed to play **%s**.", e.Entry.Track.Title)
	}
	if e.Reason != "" {
		text += "\n" + e.Reason
	}

	if err := a.notifier.SendError(e.NotificationChannelID, text); err != nil {
		slog.Warn("failed to report playback failure",
			"guild", e.GuildID,
			"channel", e.NotificationChannelID,
			"error", err,
		)
	}
}

func (a *Announcer) delete(guildID snowflake.ID, msg domain.NowPlayingMessage) {
	if err := a.notifier.DeleteMessage(msg.ChannelID, msg.MessageID); err != nil {
		slog.Warn("failed to delete now playing message",
			"guild", guildID,
			"message_id", msg.MessageID,
			"error", err,
		)
	}
}
