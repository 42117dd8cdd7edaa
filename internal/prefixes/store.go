// Package prefixes resolves the message-command prefix for each guild.
package prefixes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/cache"
	"github.com/sglre6355/tavernbot/internal/storage"
)

// DefaultCacheSize bounds how many guilds keep their prefix in memory.
const DefaultCacheSize = 4096

// ErrEmptyPrefix is returned when a prefix is empty or whitespace only.
var ErrEmptyPrefix = errors.New("prefix cannot be empty or whitespace only")

// Repository persists prefix overrides.
type Repository interface {
	Get(ctx context.Context, guildID snowflake.ID) (string, error)
	Set(ctx context.Context, guildID snowflake.ID, prefix string) error
	List(ctx context.Context, limit int) ([]storage.GuildPrefix, error)
}

// Store serves guild prefixes from a bounded cache backed by the repository.
// A cached empty string records that the guild has no override.
type Store struct {
	repo          Repository
	cache         *cache.FIFO[snowflake.ID, string]
	defaultPrefix string
}

// NewStore creates a Store.
func NewStore(repo Repository, defaultPrefix string, cacheSize int) *Store {
	return &Store{
		repo:          repo,
		cache:         cache.NewFIFO[snowflake.ID, string](cacheSize),
		defaultPrefix: defaultPrefix,
	}
}

// Default returns the prefix used by guilds without an override.
func (s *Store) Default() string {
	return s.defaultPrefix
}

// Load warms the cache with stored overrides.
func (s *Store) Load(ctx context.Context) error {
	overrides, err := s.repo.List(ctx, s.cache.Capacity())
	if err != nil {
		return fmt.Errorf("failed to load guild prefixes: %w", err)
	}
	for _, o := range overrides {
		s.cache.Put(o.GuildID, o.Prefix)
	}
	slog.Debug("loaded guild prefixes", "count", len(overrides))
	return nil
}

// Prefix returns the prefix for a guild. A zero guild ID (direct messages) uses the default.
func (s *Store) Prefix(ctx context.Context, guildID snowflake.ID) string {
	if guildID == 0 {
		return s.defaultPrefix
	}

	if prefix, ok := s.cache.Get(guildID); ok {
		return s.orDefault(prefix)
	}

	prefix, err := s.repo.Get(ctx, guildID)
	switch {
	case errors.Is(err, storage.ErrPrefixNotFound):
		s.cache.Put(guildID, "")
		return s.defaultPrefix
	case err != nil:
		slog.Warn("failed to look up guild prefix", "guild", guildID, "error", err)
		return s.defaultPrefix
	}

	s.cache.Put(guildID, prefix)
	return prefix
}

// Set validates and stores a guild's prefix override.
func (s *Store) Set(ctx context.Context, guildID snowflake.ID, prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return ErrEmptyPrefix
	}
	if err := s.repo.Set(ctx, guildID, prefix); err != nil {
		return err
	}
	s.cache.Put(guildID, prefix)
	return nil
}

func (s *Store) orDefault(prefix string) string {
	if prefix == "" {
		return s.defaultPrefix
	}
	return prefix
}
