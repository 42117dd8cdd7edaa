package infrastructure

import (
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// convertLoadResult maps a Lavalink load result onto the resolver port.
// Only playlists carry a selected track.
func convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	out := &ports.LoadResult{Type: ports.LoadTypeEmpty, SelectedTrack: -1}

	switch data := result.Data.(type) {
	case lavalink.Track:
		out.Type = ports.LoadTypeTrack
		out.Tracks = convertTracks([]lavalink.Track{data})
	case lavalink.Playlist:
		out.Type = ports.LoadTypePlaylist
		out.Tracks = convertTracks(data.Tracks)
		out.PlaylistName = data.Info.Name
		out.SelectedTrack = data.Info.SelectedTrack
	case lavalink.Search:
		out.Type = ports.LoadTypeSearch
		out.Tracks = convertTracks(data)
	case lavalink.Exception:
		out.Type = ports.LoadTypeError
		out.Message = data.Message
	}

	return out
}

func convertTracks(tracks []lavalink.Track) []*ports.TrackInfo {
	out := make([]*ports.TrackInfo, len(tracks))
	for i, track := range tracks {
		out[i] = convertTrack(track)
	}
	return out
}

func convertTrack(track lavalink.Track) *ports.TrackInfo {
	info := track.Info
	return &ports.TrackInfo{
		Identifier: info.Identifier,
		Encoded:    track.Encoded,
		Title:      info.Title,
		Artist:     info.Author,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		URI:        deref(info.URI),
		ArtworkURL: deref(info.ArtworkURL),
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// convertEndReason maps Lavalink end reasons. Unknown reasons count as
// stopped so they never advance the queue.
func convertEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}
