package domain

import (
	"errors"

	"github.com/disgoorg/snowflake/v2"
)

// ErrInvalidTransition is returned when a state change is not allowed from the current status.
var ErrInvalidTransition = errors.New("invalid playback state transition")

// PlayerState is the playback state of a single guild.
//
// The current entry is set only after it has been popped from the queue and handed to
// the audio transport. Playing and paused are never both true, and either one implies
// a voice connection.
type PlayerState struct {
	guildID               snowflake.ID
	connectedChannelID    snowflake.ID       // Voice channel the bot is connected to, zero if none
	notificationChannelID snowflake.ID       // Text channel for notifications
	nowPlayingMessage     *NowPlayingMessage // "Now Playing" message info (for deletion)
	current               *QueueEntry
	isPlaying             bool
	isPaused              bool
	Queue                 Queue
}

// NewPlayerState creates an idle, disconnected PlayerState for the given guild.
func NewPlayerState(guildID, notificationChannelID snowflake.ID) *PlayerState {
	return &PlayerState{
		guildID:               guildID,
		notificationChannelID: notificationChannelID,
		Queue:                 NewQueue(),
	}
}

// GuildID returns the guild ID.
func (p *PlayerState) GuildID() snowflake.ID {
	return p.guildID
}

// Status derives the coordinator status from the current entry and flags.
func (p *PlayerState) Status() PlaybackStatus {
	switch {
	case p.current == nil:
		return StatusIdle
	case p.isPaused:
		return StatusPaused
	case p.isPlaying:
		return StatusPlaying
	default:
		return StatusConnecting
	}
}

// IsPlaying returns true if the current track is streaming.
func (p *PlayerState) IsPlaying() bool {
	return p.isPlaying
}

// IsPaused returns true if the current track is paused.
func (p *PlayerState) IsPaused() bool {
	return p.isPaused
}

// Current returns the entry handed to the transport, or nil when idle.
func (p *PlayerState) Current() *QueueEntry {
	return p.current
}

// CurrentTrack returns the current track, or nil when idle.
func (p *PlayerState) CurrentTrack() *Track {
	if p.current == nil {
		return nil
	}
	return p.current.Track
}

// ConnectedChannelID returns the connected voice channel, or zero.
func (p *PlayerState) ConnectedChannelID() snowflake.ID {
	return p.connectedChannelID
}

// IsConnected returns true if the bot holds a voice connection for this guild.
func (p *PlayerState) IsConnected() bool {
	return p.connectedChannelID != 0
}

// SetConnected records the voice channel the bot is connected to.
func (p *PlayerState) SetConnected(channelID snowflake.ID) {
	p.connectedChannelID = channelID
}

// NotificationChannelID returns the text channel used for notifications.
func (p *PlayerState) NotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel. Zero is ignored.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	if channelID != 0 {
		p.notificationChannelID = channelID
	}
}

// BeginAdvance pops the queue head into current and clears both flags,
// moving the player to Connecting. When the queue is empty the player
// becomes idle and nil is returned.
func (p *PlayerState) BeginAdvance() *QueueEntry {
	p.isPlaying = false
	p.isPaused = false
	p.current = p.Queue.Pop()
	return p.current
}

// StartPlaying marks the current entry as streaming.
func (p *PlayerState) StartPlaying() error {
	if p.current == nil || !p.IsConnected() {
		return ErrInvalidTransition
	}
	p.isPlaying = true
	p.isPaused = false
	return nil
}

// Pause moves the player from Playing to Paused.
func (p *PlayerState) Pause() error {
	if p.Status() != StatusPlaying {
		return ErrInvalidTransition
	}
	p.isPlaying = false
	p.isPaused = true
	return nil
}

// Resume moves the player from Paused to Playing.
func (p *PlayerState) Resume() error {
	if p.Status() != StatusPaused {
		return ErrInvalidTransition
	}
	p.isPaused = false
	p.isPlaying = true
	return nil
}

// SetIdle clears the current entry and flags. The queue and connection are kept.
func (p *PlayerState) SetIdle() {
	p.current = nil
	p.isPlaying = false
	p.isPaused = false
}

// Reset clears everything: queue, current entry, flags, connection, and the
// now playing message.
func (p *PlayerState) Reset() {
	p.SetIdle()
	p.Queue.Clear()
	p.connectedChannelID = 0
	p.nowPlayingMessage = nil
}

// NowPlayingMessage returns a copy of the "Now Playing" message info, or nil.
func (p *PlayerState) NowPlayingMessage() *NowPlayingMessage {
	if p.nowPlayingMessage == nil {
		return nil
	}
	msg := *p.nowPlayingMessage
	return &msg
}

// SetNowPlayingMessage stores the "Now Playing" message info for later deletion.
func (p *PlayerState) SetNowPlayingMessage(msg NowPlayingMessage) {
	p.nowPlayingMessage = &msg
}

// TakeNowPlayingMessage returns the stored message info and forgets it.
func (p *PlayerState) TakeNowPlayingMessage() *NowPlayingMessage {
	msg := p.nowPlayingMessage
	p.nowPlayingMessage = nil
	return msg
}
