package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// LyricsInput contains the input for the Lyrics use case.
type LyricsInput struct {
	GuildID snowflake.ID
}

// LyricsOutput contains the result of the Lyrics use case.
type LyricsOutput struct {
	Track  *domain.Track
	Lyrics string
}

// LyricsService looks up lyrics for the track a guild is playing.
type LyricsService struct {
	repo     domain.PlayerStateRepository
	locks    *GuildLocks
	provider ports.LyricsProvider
}

// NewLyricsService creates a new LyricsService.
func NewLyricsService(
	repo domain.PlayerStateRepository,
	locks *GuildLocks,
	provider ports.LyricsProvider,
) *LyricsService {
	return &LyricsService{
		repo:     repo,
		locks:    locks,
		provider: provider,
	}
}

// Lyrics returns the lyrics of the current track.
func (s *LyricsService) Lyrics(ctx context.Context, input LyricsInput) (*LyricsOutput, error) {
	track := s.currentTrack(input.GuildID)
	if track == nil {
		return nil, ErrNotPlaying
	}

	lyrics, err := s.provider.Lyrics(ctx, track.Artist, track.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lyrics: %w", err)
	}
	lyrics = strings.TrimSpace(lyrics)
	if lyrics == "" {
		return nil, ErrLyricsNotFound
	}

	return &LyricsOutput{Track: track, Lyrics: lyrics}, nil
}

// currentTrack copies the current track out so the lookup runs without the guild lock.
func (s *LyricsService) currentTrack(guildID snowflake.ID) *domain.Track {
	unlock := s.locks.Lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil || state.CurrentTrack() == nil {
		return nil
	}
	track := *state.CurrentTrack()
	return &track
}
