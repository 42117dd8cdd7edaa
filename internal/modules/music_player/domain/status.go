package domain

// PlaybackStatus is the coordinator state of a guild's player.
type PlaybackStatus int

const (
	StatusIdle PlaybackStatus = iota
	StatusConnecting
	StatusPlaying
	StatusPaused
)

// String returns the lowercase status name.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}
