package prefixes

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	prefixes map[snowflake.ID]string
	gets     int
	getErr   error
	setErr   error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{prefixes: make(map[snowflake.ID]string)}
}

func (f *fakeRepository) Get(_ context.Context, guildID snowflake.ID) (string, error) {
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	prefix, ok := f.prefixes[guildID]
	if !ok {
		return "", storage.ErrPrefixNotFound
	}
	return prefix, nil
}

func (f *fakeRepository) Set(_ context.Context, guildID snowflake.ID, prefix string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.prefixes[guildID] = prefix
	return nil
}

func (f *fakeRepository) List(_ context.Context, _ int) ([]storage.GuildPrefix, error) {
	var out []storage.GuildPrefix
	for id, p := range f.prefixes {
		out = append(out, storage.GuildPrefix{GuildID: id, Prefix: p})
	}
	return out, nil
}

func TestStore_PrefixFallsBackToDefault(t *testing.T) {
	repo := newFakeRepository()
	s := NewStore(repo, "!", 8)

	assert.Equal(t, "!", s.Prefix(context.Background(), snowflake.ID(1)))
	assert.Equal(t, "!", s.Prefix(context.Background(), snowflake.ID(1)))
	assert.Equal(t, 1, repo.gets, "missing override should be cached")
}

func TestStore_PrefixDirectMessageUsesDefault(t *testing.T) {
	repo := newFakeRepository()
	s := NewStore(repo, "!", 8)

	assert.Equal(t, "!", s.Prefix(context.Background(), 0))
	assert.Zero(t, repo.gets)
}

func TestStore_LoadWarmsCache(t *testing.T) {
	repo := newFakeRepository()
	repo.prefixes[snowflake.ID(5)] = "?"
	s := NewStore(repo, "!", 8)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "?", s.Prefix(context.Background(), snowflake.ID(5)))
	assert.Zero(t, repo.gets)
}

func TestStore_Set(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr error
	}{
		{name: "valid", prefix: "$"},
		{name: "multi character", prefix: "tb "},
		{name: "empty", prefix: "", wantErr: ErrEmptyPrefix},
		{name: "whitespace", prefix: "   ", wantErr: ErrEmptyPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			s := NewStore(repo, "!", 8)

			err := s.Set(context.Background(), snowflake.ID(9), tt.prefix)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.prefixes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, s.Prefix(context.Background(), snowflake.ID(9)))
			assert.Zero(t, repo.gets)
		})
	}
}

func TestStore_LookupErrorIsNotCached(t *testing.T) {
	repo := newFakeRepository()
	repo.getErr = errors.New("disk I/O error")
	s := NewStore(repo, "!", 8)

	assert.Equal(t, "!", s.Prefix(context.Background(), snowflake.ID(3)))

	repo.getErr = nil
	repo.prefixes[snowflake.ID(3)] = "%"
	assert.Equal(t, "%", s.Prefix(context.Background(), snowflake.ID(3)))
}
