package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerStateRepository is the registry of per-guild player states.
// A state is created on first use and removed by an explicit teardown.
type PlayerStateRepository interface {
	// Get returns the PlayerState for the given guild, or nil if none exists.
	Get(guildID snowflake.ID) *PlayerState

	// GetOrCreate returns the guild's PlayerState, creating an idle one if needed.
	GetOrCreate(guildID, notificationChannelID snowflake.ID) *PlayerState

	// Delete removes the PlayerState for the given guild.
	Delete(guildID snowflake.ID)

	// List returns the IDs of all guilds that currently have a PlayerState.
	List() []snowflake.ID
}
