package usecases

import (
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// Re-export domain types for presentation layer use.
// This allows presentation to depend only on usecases without importing domain directly.

// Track is an alias for domain.Track.
type Track = domain.Track

// QueueEntry is an alias for domain.QueueEntry.
type QueueEntry = domain.QueueEntry

// PlaybackStatus is an alias for domain.PlaybackStatus.
type PlaybackStatus = domain.PlaybackStatus

// PlayerStateRepository is an alias for domain.PlayerStateRepository.
type PlayerStateRepository = domain.PlayerStateRepository

// Playback statuses, re-exported for the presentation layer.
const (
	StatusIdle       = domain.StatusIdle
	StatusConnecting = domain.StatusConnecting
	StatusPlaying    = domain.StatusPlaying
	StatusPaused     = domain.StatusPaused
)
