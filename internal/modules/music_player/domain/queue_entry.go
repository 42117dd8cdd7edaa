package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// EntryID uniquely identifies a queue entry, so the same track can be queued more than once.
type EntryID string

// NewEntryID returns a time-ordered entry ID.
func NewEntryID() EntryID {
	id, err := uuid.NewV7()
	if err != nil {
		return EntryID(uuid.NewString())
	}
	return EntryID(id.String())
}

// QueueEntry is a track waiting to be played, along with the voice channel
// it was requested for and who requested it.
type QueueEntry struct {
	ID             EntryID
	Track          *Track
	VoiceChannelID snowflake.ID
	RequesterID    snowflake.ID
	EnqueuedAt     time.Time
}

// NewQueueEntry creates a new QueueEntry with the current time as EnqueuedAt.
func NewQueueEntry(track *Track, voiceChannelID, requesterID snowflake.ID) *QueueEntry {
	return &QueueEntry{
		ID:             NewEntryID(),
		Track:          track,
		VoiceChannelID: voiceChannelID,
		RequesterID:    requesterID,
		EnqueuedAt:     time.Now().UTC(),
	}
}
