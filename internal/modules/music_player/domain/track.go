package domain

import (
	"fmt"
	"time"
)

// Track is a resolved, playable audio track. It is never mutated once the
// resolver has produced it.
type Track struct {
	Identifier string // video ID for YouTube, URL for plain http sources
	Encoded    string // opaque Lavalink payload handed back on play
	Title      string
	Artist     string
	Duration   time.Duration
	URI        string
	ArtworkURL string
	SourceName string
	IsStream   bool
}

// Source returns the platform the track was resolved from.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// Playable reports whether Lavalink can be asked to play the track.
func (t *Track) Playable() bool {
	return t.Encoded != "" && t.Title != ""
}

// DurationLabel renders the length as mm:ss, or h:mm:ss past an hour.
// Streams have no length and read LIVE.
func (t *Track) DurationLabel() string {
	if t.IsStream {
		return "LIVE"
	}

	d := t.Duration.Truncate(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
