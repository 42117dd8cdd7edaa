package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenAndMigrate(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestPrefixRepository_GetMissing(t *testing.T) {
	repo := NewPrefixRepository(setupTestDB(t))

	_, err := repo.Get(context.Background(), snowflake.ID(1))
	assert.ErrorIs(t, err, ErrPrefixNotFound)
}

func TestPrefixRepository_SetAndReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewPrefixRepository(setupTestDB(t))
	guildID := snowflake.ID(42)

	require.NoError(t, repo.Set(ctx, guildID, "?"))
	got, err := repo.Get(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, "?", got)

	require.NoError(t, repo.Set(ctx, guildID, "$$"))
	got, err = repo.Get(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, "$$", got)
}

func TestPrefixRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewPrefixRepository(setupTestDB(t))

	require.NoError(t, repo.Set(ctx, snowflake.ID(1), "a"))
	require.NoError(t, repo.Set(ctx, snowflake.ID(2), "b"))
	require.NoError(t, repo.Set(ctx, snowflake.ID(3), "c"))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, GuildPrefix{GuildID: 1, Prefix: "a"}, all[0])

	limited, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOpenAndMigrate_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")

	db, err := OpenAndMigrate(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Migrating twice must be harmless.
	require.NoError(t, Migrate(ctx, db))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('tasks', 'users', 'guild_prefixes')",
	).Scan(&count))
	assert.Equal(t, 3, count)
}
