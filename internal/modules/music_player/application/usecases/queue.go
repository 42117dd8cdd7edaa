package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

const DefaultPageSize = 10

// QueueListInput contains the input for the QueueList use case.
type QueueListInput struct {
	GuildID  snowflake.ID
	Page     int // 1-indexed page number
	PageSize int // Items per page (optional, defaults to 10)
}

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	Current      *domain.QueueEntry
	Status       domain.PlaybackStatus
	Entries      []*domain.QueueEntry // Waiting entries on the requested page
	Start        int                  // 1-indexed position of Entries[0]
	TotalEntries int
	CurrentPage  int
	TotalPages   int
}

// IsEmpty returns true if nothing is playing and nothing is waiting.
func (o *QueueListOutput) IsEmpty() bool {
	return o.Current == nil && o.TotalEntries == 0
}

// QueueRemoveInput contains the input for the QueueRemove use case.
type QueueRemoveInput struct {
	GuildID  snowflake.ID
	Position int // 1-indexed position among waiting entries
}

// QueueRemoveOutput contains the result of the QueueRemove use case.
type QueueRemoveOutput struct {
	Removed *domain.QueueEntry
}

// QueueClearInput contains the input for the QueueClear use case.
type QueueClearInput struct {
	GuildID snowflake.ID
}

// QueueClearOutput contains the result of the QueueClear use case.
type QueueClearOutput struct {
	ClearedCount int
}

// QueueService handles queue operations.
type QueueService struct {
	repo  domain.PlayerStateRepository
	locks *GuildLocks
}

// NewQueueService creates a new QueueService.
func NewQueueService(repo domain.PlayerStateRepository, locks *GuildLocks) *QueueService {
	return &QueueService{
		repo:  repo,
		locks: locks,
	}
}

// List returns the current entry and one page of waiting entries.
// Pages past the end are clamped to the last page.
func (q *QueueService) List(_ context.Context, input QueueListInput) *QueueListOutput {
	unlock := q.locks.Lock(input.GuildID)
	defer unlock()

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	output := &QueueListOutput{CurrentPage: 1, TotalPages: 1}

	state := q.repo.Get(input.GuildID)
	if state == nil {
		return output
	}

	entries := state.Queue.List()
	output.Current = state.Current()
	output.Status = state.Status()
	output.TotalEntries = len(entries)
	output.TotalPages = max(1, (len(entries)+pageSize-1)/pageSize)
	output.CurrentPage = min(max(1, input.Page), output.TotalPages)

	start := (output.CurrentPage - 1) * pageSize
	end := min(start+pageSize, len(entries))
	output.Entries = entries[start:end]
	output.Start = start + 1

	return output
}

// Remove removes a waiting entry by its 1-indexed position.
// The currently playing entry is not part of the queue and cannot be removed this way.
func (q *QueueService) Remove(_ context.Context, input QueueRemoveInput) (*QueueRemoveOutput, error) {
	unlock := q.locks.Lock(input.GuildID)
	defer unlock()

	state := q.repo.Get(input.GuildID)
	if state == nil || state.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	removed := state.Queue.RemoveAt(input.Position - 1)
	if removed == nil {
		return nil, &PositionError{Position: input.Position, Max: state.Queue.Len()}
	}

	return &QueueRemoveOutput{Removed: removed}, nil
}

// Clear removes every waiting entry. The current entry keeps playing.
func (q *QueueService) Clear(_ context.Context, input QueueClearInput) (*QueueClearOutput, error) {
	unlock := q.locks.Lock(input.GuildID)
	defer unlock()

	state := q.repo.Get(input.GuildID)
	if state == nil || state.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	return &QueueClearOutput{ClearedCount: state.Queue.Clear()}, nil
}

// Entries returns the waiting entries, for suggestions.
func (q *QueueService) Entries(guildID snowflake.ID) []*domain.QueueEntry {
	unlock := q.locks.Lock(guildID)
	defer unlock()

	state := q.repo.Get(guildID)
	if state == nil {
		return nil
	}
	return state.Queue.List()
}
