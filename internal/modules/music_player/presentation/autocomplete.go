package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
)

// Discord limits on autocomplete results.
const (
	maxChoices         = 25
	maxChoiceNameLen   = 100
	maxChoiceValueLen  = 100
	minPlayQueryLength = 2
)

// AutocompleteHandler suggests values while a command is being typed.
type AutocompleteHandler struct {
	queue       Queue
	trackLoader TrackLoader
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(queue Queue, trackLoader TrackLoader) *AutocompleteHandler {
	return &AutocompleteHandler{
		queue:       queue,
		trackLoader: trackLoader,
	}
}

// HandleAutocomplete answers autocomplete interactions for play and remove.
func (h *AutocompleteHandler) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		slog.Warn("failed to parse guild ID in autocomplete", "guild", i.GuildID, "error", err)
		return
	}

	choices, ok := h.Choices(context.Background(), guildID, i.ApplicationCommandData())
	if !ok {
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
	if err != nil {
		slog.Debug("failed to send autocomplete choices", "guild", guildID, "error", err)
	}
}

// Choices returns the suggestions for a command, and false if the command
// has no autocompleted options.
func (h *AutocompleteHandler) Choices(
	ctx context.Context,
	guildID snowflake.ID,
	data discordgo.ApplicationCommandInteractionData,
) ([]*discordgo.ApplicationCommandOptionChoice, bool) {
	focused := focusedValue(data.Options)

	switch data.Name {
	case cmdPlay:
		return h.playChoices(ctx, focused), true
	case cmdRemove:
		return h.removeChoices(guildID, focused), true
	default:
		return nil, false
	}
}

func (h *AutocompleteHandler) playChoices(
	ctx context.Context,
	query string,
) []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{}

	query = strings.TrimSpace(query)
	if len([]rune(query)) < minPlayQueryLength {
		return choices
	}

	output, err := h.trackLoader.SearchTracks(ctx, usecases.SearchTracksInput{Query: query})
	if err != nil {
		slog.Debug("failed to search tracks for autocomplete", "error", err)
		return choices
	}

	for _, track := range output.Tracks {
		// Choice values are capped, so long URIs fall back to the title,
		// which resolves through search instead.
		value := track.URI
		if value == "" || len(value) > maxChoiceValueLen {
			value = truncate(track.Title, maxChoiceValueLen)
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("%s - %s", track.Title, track.Artist), maxChoiceNameLen),
			Value: value,
		})
		if len(choices) == maxChoices {
			break
		}
	}
	return choices
}

// removeChoices lists waiting entries whose position or title matches what
// has been typed so far.
func (h *AutocompleteHandler) removeChoices(
	guildID snowflake.ID,
	typed string,
) []*discordgo.ApplicationCommandOptionChoice {
	choices := []*discordgo.ApplicationCommandOptionChoice{}
	typed = strings.ToLower(strings.TrimSpace(typed))

	for idx, entry := range h.queue.Entries(guildID) {
		position := idx + 1
		title := entry.Track.Title
		if typed != "" &&
			!strings.HasPrefix(strconv.Itoa(position), typed) &&
			!strings.Contains(strings.ToLower(title), typed) {
			continue
		}

		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("%d. %s", position, title), maxChoiceNameLen),
			Value: position,
		})
		if len(choices) == maxChoices {
			break
		}
	}
	return choices
}

// focusedValue returns the text typed into the focused option.
func focusedValue(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range options {
		if opt.Focused {
			return fmt.Sprint(opt.Value)
		}
		if len(opt.Options) > 0 {
			if v := focusedValue(opt.Options); v != "" {
				return v
			}
		}
	}
	return ""
}
