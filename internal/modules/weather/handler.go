package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
)

const failureMessage = "Failed to fetch weather data. Please ensure the city name is correct and try again."

// Source returns the current weather for a city.
type Source interface {
	Current(ctx context.Context, city string) (*Report, error)
}

// Handler handles the weather command.
type Handler struct {
	source Source
}

// NewHandler creates a new Handler.
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Command returns the weather command definition.
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "weather",
		Description: "Get weather details for a city",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "city",
				Description: "City name",
				Required:    true,
			},
		},
	}
}

// Handle reports the current weather for a city.
func (h *Handler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	city := strings.TrimSpace(inv.String("city"))

	return r.DeferThenFollowUp(false, func() (*bot.Reply, error) {
		report, err := h.source.Current(context.Background(), city)
		if err != nil {
			if errors.Is(err, ErrCityNotFound) || errors.Is(err, ErrEmptyCity) {
				slog.Debug("failed to find city", "city", city)
			} else {
				slog.Warn("failed to fetch weather", "city", city, "error", err)
			}
			return &bot.Reply{Content: failureMessage}, nil
		}
		return &bot.Reply{Content: formatReport(report)}, nil
	})
}

func formatReport(report *Report) string {
	return fmt.Sprintf(
		"Weather Information for **%s**:\n\n**Temperature:** %s°C\n**Description:** %s\n**Humidity:** %d%%",
		report.City,
		strconv.FormatFloat(report.Temperature, 'f', -1, 64),
		report.Description,
		report.Humidity,
	)
}
