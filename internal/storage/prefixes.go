package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

// ErrPrefixNotFound is returned when a guild has no prefix override.
var ErrPrefixNotFound = errors.New("guild prefix not found")

// GuildPrefix is a per-guild command prefix override.
type GuildPrefix struct {
	GuildID snowflake.ID
	Prefix  string
}

// PrefixRepository persists guild prefix overrides in guild_prefixes.
type PrefixRepository struct {
	db *sql.DB
}

// NewPrefixRepository creates a new PrefixRepository.
func NewPrefixRepository(db *sql.DB) *PrefixRepository {
	return &PrefixRepository{db: db}
}

// Get returns the prefix override for a guild.
func (r *PrefixRepository) Get(ctx context.Context, guildID snowflake.ID) (string, error) {
	var prefix string
	err := r.db.QueryRowContext(ctx,
		"SELECT prefix FROM guild_prefixes WHERE guild_id = ?",
		guildID.String(),
	).Scan(&prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPrefixNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get guild prefix: %w", err)
	}
	return prefix, nil
}

// Set stores or replaces the prefix override for a guild.
func (r *PrefixRepository) Set(ctx context.Context, guildID snowflake.ID, prefix string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO guild_prefixes (guild_id, prefix) VALUES (?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET prefix = excluded.prefix`,
		guildID.String(), prefix,
	)
	if err != nil {
		return fmt.Errorf("failed to set guild prefix: %w", err)
	}
	return nil
}

// List returns at most limit overrides. A non-positive limit returns all rows.
func (r *PrefixRepository) List(ctx context.Context, limit int) ([]GuildPrefix, error) {
	query := "SELECT guild_id, prefix FROM guild_prefixes ORDER BY rowid"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild prefixes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefixes []GuildPrefix
	for rows.Next() {
		var (
			rawID  string
			prefix string
		)
		if err := rows.Scan(&rawID, &prefix); err != nil {
			return nil, fmt.Errorf("failed to scan guild prefix: %w", err)
		}
		guildID, err := snowflake.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse guild id %q: %w", rawID, err)
		}
		prefixes = append(prefixes, GuildPrefix{GuildID: guildID, Prefix: prefix})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild prefixes: %w", err)
	}

	return prefixes, nil
}
