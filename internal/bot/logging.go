package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
)

// discordgoLogLevels maps discordgo's numeric levels onto slog.
var discordgoLogLevels = map[int]slog.Level{
	discordgo.LogError:         slog.LevelError,
	discordgo.LogWarning:       slog.LevelWarn,
	discordgo.LogInformational: slog.LevelInfo,
	discordgo.LogDebug:         slog.LevelDebug,
}

// NewLogHandler returns a JSON handler, or a tint handler for the text format.
func NewLogHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", LogFormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case LogFormatText:
		return tint.NewHandler(w, &tint.Options{Level: level}), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// BridgeDiscordgoLogger routes discordgo's internal logging through handler.
func BridgeDiscordgoLogger(handler slog.Handler) {
	logger := slog.New(handler).With("logger", "discordgo")
	discordgo.Logger = func(msgL, _ int, format string, args ...any) {
		level, ok := discordgoLogLevels[msgL]
		if !ok {
			level = slog.LevelInfo
		}
		logger.Log(
			context.Background(),
			level,
			strings.ReplaceAll(fmt.Sprintf(format, args...), "\n", ""),
		)
	}
}
