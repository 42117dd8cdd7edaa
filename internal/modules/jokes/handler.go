package jokes

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
)

const (
	defaultCategory = "Any"
	failureMessage  = "Failed to retrieve joke. Please try again later."
)

// Categories are the joke categories users may pick from.
var Categories = []string{"Programming", "Misc", "Dark", "Any"}

// Source returns jokes.
type Source interface {
	Random(ctx context.Context, category string) (string, error)
}

// Handler handles the joke command.
type Handler struct {
	source Source
}

// NewHandler creates a new Handler.
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Command returns the joke command definition.
func Command() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(Categories))
	for i, category := range Categories {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: category, Value: category}
	}

	return &discordgo.ApplicationCommand{
		Name:        "joke",
		Description: "Get a random joke (default: Any)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "category",
				Description: "Choose a joke category",
				Choices:     choices,
			},
		},
	}
}

// Handle fetches a joke. The lookup is remote, so the invocation is
// acknowledged first.
func (h *Handler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	category := inv.String("category")
	if category == "" {
		category = defaultCategory
	}
	if !slices.Contains(Categories, category) {
		return r.Reply(&bot.Reply{
			Content:   fmt.Sprintf("Invalid category! Please choose from %s", strings.Join(Categories, ", ")),
			Ephemeral: true,
		})
	}

	return r.DeferThenFollowUp(false, func() (*bot.Reply, error) {
		text, err := h.source.Random(context.Background(), category)
		if err != nil {
			slog.Warn("failed to retrieve joke", "category", category, "error", err)
			return &bot.Reply{Content: failureMessage}, nil
		}
		return &bot.Reply{Content: text}, nil
	})
}
