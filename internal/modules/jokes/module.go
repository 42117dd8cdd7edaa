package jokes

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/httpclient"
)

func init() {
	bot.Register(&JokesModule{})
}

// JokesModule provides the joke command.
type JokesModule struct {
	handler  *Handler
	cooldown *bot.Cooldown
}

// Name returns the module name.
func (m *JokesModule) Name() string {
	return "jokes"
}

// Commands returns the commands for this module.
func (m *JokesModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{Command()}
}

// CommandHandlers returns the command handlers for this module.
func (m *JokesModule) CommandHandlers() map[string]bot.CommandHandler {
	return map[string]bot.CommandHandler{
		"joke": m.cooldown.Wrap(m.handler.Handle),
	}
}

// EventHandlers returns the event handlers for this module.
func (m *JokesModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *JokesModule) Init(deps bot.ModuleDependencies) error {
	m.cooldown = bot.CooldownFor(deps.Config)
	m.handler = NewHandler(NewClient(httpclient.New(), DefaultBaseURL))
	return nil
}

// Shutdown cleans up module resources.
func (m *JokesModule) Shutdown() error {
	return nil
}
