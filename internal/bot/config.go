package bot

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Log output formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken  string     `env:"DISCORD_TOKEN,notEmpty"`
	DefaultPrefix string     `env:"DEFAULT_PREFIX"  envDefault:"!"`
	DatabasePath  string     `env:"DATABASE_PATH"   envDefault:"db/tasks.db"`
	LogLevel      slog.Level `env:"LOG_LEVEL"       envDefault:"info"`
	LogFormat     string     `env:"LOG_FORMAT"      envDefault:"json"`

	// CommandCooldown spaces out calls to commands backed by third-party APIs, per user.
	CommandCooldown time.Duration `env:"COMMAND_COOLDOWN" envDefault:"3s"`

	// GuildID registers slash commands to a single guild instead of globally.
	GuildID string `env:"GUILD_ID"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
