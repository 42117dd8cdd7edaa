package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// thumbnailCheckTimeout bounds the HEAD requests spent on one track's artwork.
const thumbnailCheckTimeout = 8 * time.Second

// URLChecker checks whether a remote resource exists.
type URLChecker interface {
	Exists(ctx context.Context, url string) bool
}

// youtubeQualities lists YouTube thumbnail variants from sharpest to blurriest.
var youtubeQualities = []string{"maxresdefault", "sddefault", "hqdefault", "mqdefault"}

// thumbnailCandidates returns artwork URLs worth checking for a track, best
// first. The artwork Lavalink reported is never among them.
func thumbnailCandidates(source domain.TrackSource, identifier, artworkURL string) []string {
	switch source {
	case domain.TrackSourceYouTube:
		if identifier == "" {
			return nil
		}
		urls := make([]string, 0, len(youtubeQualities))
		for _, q := range youtubeQualities {
			urls = append(urls, fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", identifier, q))
		}
		return urls
	case domain.TrackSourceTwitch:
		// Twitch previews are served at 440x248 but exist at 720p too.
		if large := strings.Replace(artworkURL, "440x248", "1280x720", 1); large != artworkURL {
			return []string{large}
		}
	}
	return nil
}

// pickThumbnail returns the first candidate the checker finds, falling back to
// the reported artwork.
func pickThumbnail(checker URLChecker, source domain.TrackSource, identifier, artworkURL string) string {
	candidates := thumbnailCandidates(source, identifier, artworkURL)
	if checker == nil || len(candidates) == 0 {
		return artworkURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), thumbnailCheckTimeout)
	defer cancel()

	for _, url := range candidates {
		if checker.Exists(ctx, url) {
			return url
		}
	}
	return artworkURL
}
