package memes

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/httpclient"
)

const notConfiguredMessage = "Memes are not configured on this bot."

func init() {
	bot.Register(&MemesModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MemesModule)(nil)

// MemesModule provides the meme command.
type MemesModule struct {
	config   *Config
	handler  *Handler
	cooldown *bot.Cooldown
}

// Name returns the module name.
func (m *MemesModule) Name() string {
	return "memes"
}

// Commands returns the commands for this module.
func (m *MemesModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{Command()}
}

// CommandHandlers returns the command handlers for this module.
func (m *MemesModule) CommandHandlers() map[string]bot.CommandHandler {
	if m.handler == nil {
		return map[string]bot.CommandHandler{
			"meme": func(_ *discordgo.Session, _ *bot.Invocation, r bot.Responder) error {
				return r.Reply(&bot.Reply{Content: notConfiguredMessage, Ephemeral: true})
			},
		}
	}
	return map[string]bot.CommandHandler{
		"meme": m.cooldown.Wrap(m.handler.Handle),
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MemesModule) EventHandlers() []bot.EventHandler {
	return nil
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MemesModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MemesModule) Init(deps bot.ModuleDependencies) error {
	m.cooldown = bot.CooldownFor(deps.Config)

	if m.config == nil || !m.config.Enabled() {
		slog.Warn("memes module loaded without Reddit credentials, memes disabled")
		return nil
	}

	client := httpclient.New(
		httpclient.WithHTTPClient(NewOAuthHTTPClient(m.config, DefaultTokenURL)),
		httpclient.WithUserAgent(m.config.UserAgent()),
	)
	m.handler = NewHandler(
		NewRedditClient(client, DefaultAPIURL),
		NewPicker(m.config.SeenCacheSize),
	)
	return nil
}

// Shutdown cleans up module resources.
func (m *MemesModule) Shutdown() error {
	return nil
}
