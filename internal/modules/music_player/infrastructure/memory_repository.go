package infrastructure

import (
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

var _ domain.PlayerStateRepository = (*MemoryRepository)(nil)

// MemoryRepository keeps player states in process memory, keyed by guild.
// Guilds are touched by unrelated goroutines and rarely share keys, which is
// the access pattern sync.Map is built for.
type MemoryRepository struct {
	states sync.Map // snowflake.ID -> *domain.PlayerState
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	if v, ok := r.states.Load(guildID); ok {
		return v.(*domain.PlayerState)
	}
	return nil
}

// GetOrCreate returns the guild's state. A new idle state announces to
// notificationChannelID; an existing one keeps its channel.
func (r *MemoryRepository) GetOrCreate(guildID, notificationChannelID snowflake.ID) *domain.PlayerState {
	if state := r.Get(guildID); state != nil {
		return state
	}
	v, _ := r.states.LoadOrStore(guildID, domain.NewPlayerState(guildID, notificationChannelID))
	return v.(*domain.PlayerState)
}

func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.states.Delete(guildID)
}

// List returns the guilds holding a state in ascending ID order.
func (r *MemoryRepository) List() []snowflake.ID {
	var ids []snowflake.ID
	r.states.Range(func(k, _ any) bool {
		ids = append(ids, k.(snowflake.ID))
		return true
	})
	slices.Sort(ids)
	return ids
}

// Len returns how many guilds hold a state.
func (r *MemoryRepository) Len() int {
	return len(r.List())
}
