package usecases

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// GuildLocks serializes state mutations per guild. Guilds never contend with each other.
// A guild's entry lives only while someone holds or waits for its lock.
type GuildLocks struct {
	mu    sync.Mutex
	locks map[snowflake.ID]*guildLock
}

type guildLock struct {
	mu   sync.Mutex
	refs int
}

// NewGuildLocks creates an empty GuildLocks.
func NewGuildLocks() *GuildLocks {
	return &GuildLocks{
		locks: make(map[snowflake.ID]*guildLock),
	}
}

// Lock acquires the guild's lock and returns the function that releases it.
func (l *GuildLocks) Lock(guildID snowflake.ID) (unlock func()) {
	l.mu.Lock()
	g, ok := l.locks[guildID]
	if !ok {
		g = &guildLock{}
		l.locks[guildID] = g
	}
	g.refs++
	l.mu.Unlock()

	g.mu.Lock()
	return func() {
		g.mu.Unlock()

		l.mu.Lock()
		g.refs--
		if g.refs == 0 {
			delete(l.locks, guildID)
		}
		l.mu.Unlock()
	}
}

// Len reports how many guilds currently have a lock entry.
func (l *GuildLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
