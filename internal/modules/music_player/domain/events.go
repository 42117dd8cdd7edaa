package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason says why the audio node stopped streaming a track.
type TrackEndReason string

const (
	TrackEndFinished   TrackEndReason = "finished"
	TrackEndLoadFailed TrackEndReason = "load_failed" // failed to load or broke mid-stream
	TrackEndStopped    TrackEndReason = "stopped"
	TrackEndReplaced   TrackEndReason = "replaced"
	TrackEndCleanup    TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue reports whether the next entry should start. Stops and
// replacements come from the player itself, which has already moved on.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	switch r {
	case TrackEndFinished, TrackEndLoadFailed:
		return true
	default:
		return false
	}
}

// TrackEndedEvent reports that the audio node stopped streaming a track.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Encoded string
	Reason  TrackEndReason
	Message string // set for TrackEndLoadFailed only
}

// PlaybackStartedEvent announces that an entry is now streaming.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Entry                 *QueueEntry
	NotificationChannelID snowflake.ID
}

// PlaybackFinishedEvent retires a Now Playing message that no longer
// describes what is playing.
type PlaybackFinishedEvent struct {
	GuildID snowflake.ID
	Message NowPlayingMessage
}

// PlaybackFailedEvent reports an entry that could not start outside any
// command, for instance while advancing past a finished track.
type PlaybackFailedEvent struct {
	GuildID               snowflake.ID
	Entry                 *QueueEntry
	NotificationChannelID snowflake.ID
	Reason                string
}
