package ports

import (
	"context"
	"time"
)

// TrackResolver turns a URL or prefixed search into playable tracks.
type TrackResolver interface {
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}

// LoadType classifies what a query resolved to.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult is the outcome of resolving a query.
type LoadResult struct {
	Type         LoadType
	Tracks       []*TrackInfo
	PlaylistName string

	// SelectedTrack is the index a playlist URL points at, or -1.
	SelectedTrack int

	// Message explains a LoadTypeError.
	Message string
}

// TrackInfo is a resolved track as the audio node reports it.
type TrackInfo struct {
	Identifier string
	Encoded    string
	Title      string
	Artist     string
	Duration   time.Duration
	URI        string
	ArtworkURL string
	SourceName string
	IsStream   bool
}
