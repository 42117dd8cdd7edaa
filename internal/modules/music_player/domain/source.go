package domain

// TrackSource represents the origin platform of a track.
type TrackSource string

const (
	TrackSourceYouTube    TrackSource = "youtube"
	TrackSourceSpotify    TrackSource = "spotify"
	TrackSourceSoundCloud TrackSource = "soundcloud"
	TrackSourceTwitch     TrackSource = "twitch"
	TrackSourceOther      TrackSource = "other"
)

type sourceStyle struct {
	color int
	icon  string
}

var sourceStyles = map[TrackSource]sourceStyle{
	TrackSourceYouTube:    {0xFF0000, "https://www.youtube.com/favicon.ico"},
	TrackSourceSpotify:    {0x1DB954, "https://open.spotify.com/favicon.ico"},
	TrackSourceSoundCloud: {0xFF5500, "https://soundcloud.com/favicon.ico"},
	TrackSourceTwitch:     {0x9146FF, "https://www.twitch.tv/favicon.ico"},
}

const otherSourceColor = 0x08C404

// ParseTrackSource maps a Lavalink source name to a known platform.
// Anything unrecognised, including "http", is TrackSourceOther.
func ParseTrackSource(name string) TrackSource {
	if _, ok := sourceStyles[TrackSource(name)]; ok {
		return TrackSource(name)
	}
	return TrackSourceOther
}

// Color returns the embed accent color for the source.
func (s TrackSource) Color() int {
	if style, ok := sourceStyles[s]; ok {
		return style.color
	}
	return otherSourceColor
}

// IconURL returns a small icon for the source, or "" for unknown sources.
func (s TrackSource) IconURL() string {
	return sourceStyles[s].icon
}
