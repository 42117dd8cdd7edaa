package ports

import (
	"context"

	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// EventPublisher hands playback events to subscribers without blocking the caller.
type EventPublisher interface {
	PublishTrackEnded(event domain.TrackEndedEvent)
	PublishPlaybackStarted(event domain.PlaybackStartedEvent)
	PublishPlaybackFinished(event domain.PlaybackFinishedEvent)
	PublishPlaybackFailed(event domain.PlaybackFailedEvent)
}

// EventSubscriber registers handlers for playback events. Handlers see one
// guild's events in order but may run concurrently for different guilds.
type EventSubscriber interface {
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
	OnPlaybackStarted(handler func(context.Context, domain.PlaybackStartedEvent))
	OnPlaybackFinished(handler func(context.Context, domain.PlaybackFinishedEvent))
	OnPlaybackFailed(handler func(context.Context, domain.PlaybackFailedEvent))
}
