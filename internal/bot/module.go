package bot

import (
	"database/sql"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/prefixes"
)

// CommandHandler runs one command. It answers through r, whether the command
// arrived as a slash command or a prefixed message.
type CommandHandler func(s *discordgo.Session, inv *Invocation, r Responder) error

// EventHandler is any function discordgo.Session.AddHandler accepts, such as
// func(*discordgo.Session, *discordgo.MessageCreate).
type EventHandler any

// ModuleDependencies is what the bot hands each module on Init. Session is
// nil outside a live gateway connection and DB is nil when persistence is
// unavailable; modules degrade rather than fail in both cases.
type ModuleDependencies struct {
	Session  *discordgo.Session
	Config   *Config
	DB       *sql.DB
	Prefixes *prefixes.Store
}

// Module is a self-contained feature: a set of commands plus the gateway
// handlers backing them.
//
// The bot calls Init once, then collects its commands and handlers,
// and calls Shutdown when it stops. Every command name must
// have a handler.
type Module interface {
	Name() string
	Commands() []*discordgo.ApplicationCommand
	CommandHandlers() map[string]CommandHandler
	EventHandlers() []EventHandler
	Init(deps ModuleDependencies) error
	Shutdown() error
}

// ConfigurableModule is implemented by modules that read their own
// environment. LoadConfig runs before the gateway connects; an error aborts
// startup.
type ConfigurableModule interface {
	LoadConfig() error
}
