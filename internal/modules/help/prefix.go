package help

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/prefixes"
)

const (
	emptyPrefixMessage    = "Prefix cannot be empty or whitespace only."
	prefixDisabledMessage = "Prefixes cannot be changed because no database is configured."
)

// PrefixSetter stores a guild's prefix override.
type PrefixSetter interface {
	Set(ctx context.Context, guildID snowflake.ID, prefix string) error
}

// Compile-time interface checks.
var (
	_ PrefixResolver = (*prefixes.Store)(nil)
	_ PrefixSetter   = (*prefixes.Store)(nil)
)

// PrefixHandler handles the prefix command.
type PrefixHandler struct {
	store PrefixSetter
}

// NewPrefixHandler creates a new PrefixHandler. A nil store disables changes.
func NewPrefixHandler(store PrefixSetter) *PrefixHandler {
	return &PrefixHandler{store: store}
}

// Handle changes the guild's prefix.
func (h *PrefixHandler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	if h.store == nil {
		return r.Reply(&bot.Reply{Content: prefixDisabledMessage, Ephemeral: true})
	}
	if inv.GuildID == 0 {
		return r.Reply(&bot.Reply{Content: "Prefixes can only be changed in a server.", Ephemeral: true})
	}

	value := inv.String("value")
	err := h.store.Set(context.Background(), inv.GuildID, value)
	if errors.Is(err, prefixes.ErrEmptyPrefix) {
		return r.Reply(&bot.Reply{Content: emptyPrefixMessage, Ephemeral: true})
	}
	if err != nil {
		return fmt.Errorf("failed to set prefix: %w", err)
	}

	return r.Reply(&bot.Reply{Content: fmt.Sprintf("Prefix for this server set to **'%s'**", value)})
}
