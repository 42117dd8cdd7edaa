package weather

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/httpclient"
)

const notConfiguredMessage = "Weather is not configured on this bot."

func init() {
	bot.Register(&WeatherModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*WeatherModule)(nil)

// Config holds the weather module configuration.
// Without an API key the module loads disabled.
type Config struct {
	APIKey string `env:"WEATHER_API"`
}

// WeatherModule provides the weather command.
type WeatherModule struct {
	config   *Config
	handler  *Handler
	cooldown *bot.Cooldown
}

// Name returns the module name.
func (m *WeatherModule) Name() string {
	return "weather"
}

// Commands returns the commands for this module.
func (m *WeatherModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{Command()}
}

// CommandHandlers returns the command handlers for this module.
func (m *WeatherModule) CommandHandlers() map[string]bot.CommandHandler {
	if m.handler == nil {
		return map[string]bot.CommandHandler{
			"weather": func(_ *discordgo.Session, _ *bot.Invocation, r bot.Responder) error {
				return r.Reply(&bot.Reply{Content: notConfiguredMessage, Ephemeral: true})
			},
		}
	}
	return map[string]bot.CommandHandler{
		"weather": m.cooldown.Wrap(m.handler.Handle),
	}
}

// EventHandlers returns the event handlers for this module.
func (m *WeatherModule) EventHandlers() []bot.EventHandler {
	return nil
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *WeatherModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *WeatherModule) Init(deps bot.ModuleDependencies) error {
	m.cooldown = bot.CooldownFor(deps.Config)

	if m.config == nil || m.config.APIKey == "" {
		slog.Warn("weather module loaded without an API key, weather disabled")
		return nil
	}

	m.handler = NewHandler(NewClient(httpclient.New(), DefaultBaseURL, m.config.APIKey))
	return nil
}

// Shutdown cleans up module resources.
func (m *WeatherModule) Shutdown() error {
	return nil
}
