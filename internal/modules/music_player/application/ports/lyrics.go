package ports

import "context"

// LyricsProvider looks up song lyrics.
type LyricsProvider interface {
	// Lyrics returns the lyrics for a song, or "" if none are known.
	Lyrics(ctx context.Context, artist, title string) (string, error)
}
