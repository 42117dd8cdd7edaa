package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// DefaultSearchLimit is the number of suggestions offered while typing a play query.
const DefaultSearchLimit = 5

// ResolveInput contains the input for the Resolve use case.
type ResolveInput struct {
	Query string
}

// ResolveOutput contains the result of the Resolve use case.
type ResolveOutput struct {
	Track *domain.Track
}

// SearchTracksInput contains the input for the SearchTracks use case.
type SearchTracksInput struct {
	Query string
	Limit int
}

// SearchTracksOutput contains the result of the SearchTracks use case.
type SearchTracksOutput struct {
	Tracks []*ports.TrackInfo
}

// TrackLoaderService turns user queries into playable tracks.
// Nothing is cached; every call goes back to the resolver.
type TrackLoaderService struct {
	trackResolver ports.TrackResolver
}

// NewTrackLoaderService creates a new TrackLoaderService.
func NewTrackLoaderService(trackResolver ports.TrackResolver) *TrackLoaderService {
	return &TrackLoaderService{
		trackResolver: trackResolver,
	}
}

// Resolve loads the track for a query. URLs are loaded directly; anything else
// is searched and the top result is taken.
func (s *TrackLoaderService) Resolve(
	ctx context.Context,
	input ResolveInput,
) (*ResolveOutput, error) {
	query := domain.ParseQuery(input.Query)
	if query.Empty() {
		return nil, ErrEmptyQuery
	}

	result, err := s.trackResolver.LoadTracks(ctx, query.Identifier())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", query.Text, err)
	}

	switch result.Type {
	case ports.LoadTypeError:
		return nil, &ResolutionError{Query: query.Text, Kind: ErrLoadFailed, Message: result.Message}
	case ports.LoadTypeEmpty:
		return nil, &ResolutionError{Query: query.Text, Kind: ErrNoResults}
	}
	if len(result.Tracks) == 0 {
		return nil, &ResolutionError{Query: query.Text, Kind: ErrNoResults}
	}

	info := result.Tracks[0]
	if result.Type == ports.LoadTypePlaylist &&
		result.SelectedTrack >= 0 && result.SelectedTrack < len(result.Tracks) {
		info = result.Tracks[result.SelectedTrack]
	}

	track := newTrack(info)
	if !track.Playable() {
		return nil, &ResolutionError{Query: query.Text, Kind: ErrLoadFailed, Message: "incomplete track metadata"}
	}

	return &ResolveOutput{Track: track}, nil
}

// SearchTracks searches for tracks matching the query.
// Failures and empty queries return no suggestions rather than an error.
func (s *TrackLoaderService) SearchTracks(
	ctx context.Context,
	input SearchTracksInput,
) (*SearchTracksOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return &SearchTracksOutput{Tracks: nil}, nil
	}

	result, err := s.trackResolver.LoadTracks(ctx, domain.ParseQuery(input.Query).Identifier())
	if err != nil {
		return nil, err
	}

	if result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError {
		return &SearchTracksOutput{Tracks: nil}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > len(result.Tracks) {
		limit = len(result.Tracks)
	}

	return &SearchTracksOutput{
		Tracks: result.Tracks[:limit],
	}, nil
}

func newTrack(info *ports.TrackInfo) *domain.Track {
	return &domain.Track{
		Identifier: info.Identifier,
		Encoded:    info.Encoded,
		Title:      info.Title,
		Artist:     info.Artist,
		Duration:   info.Duration,
		URI:        info.URI,
		ArtworkURL: info.ArtworkURL,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}
