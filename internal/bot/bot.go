package bot

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/prefixes"
	"golang.org/x/sync/errgroup"
)

// intents cover guild and direct messages for prefixed commands (which need
// message content) and voice states for the music player.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// readyTimeout bounds the wait for the gateway's READY after connecting.
const readyTimeout = 30 * time.Second

// Bot owns the gateway session and the modules plugged into it.
type Bot struct {
	config   *Config
	db       *sql.DB
	prefixes *prefixes.Store
	session  *discordgo.Session
	modules  []Module

	handlers map[string]CommandHandler
	commands map[string]*discordgo.ApplicationCommand

	permissions permissionFunc
}

// NewBot creates a Bot. db and prefixStore may be nil, in which case every
// guild uses the configured default prefix.
func NewBot(cfg *Config, db *sql.DB, prefixStore *prefixes.Store) *Bot {
	return &Bot{
		config:      cfg,
		db:          db,
		prefixes:    prefixStore,
		handlers:    map[string]CommandHandler{},
		commands:    map[string]*discordgo.ApplicationCommand{},
		permissions: channelPermissions,
	}
}

// LoadModules takes every registered module and lets the configurable ones
// read their environment. It runs before connecting so bad configuration
// fails fast.
func (b *Bot) LoadModules() error {
	b.modules = Modules()

	for _, mod := range b.modules {
		if c, ok := mod.(ConfigurableModule); ok {
			if err := c.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
			}
		}
	}
	return nil
}

// Start connects to Discord, initializes the modules and publishes their
// commands.
func (b *Bot) Start() error {
	session, err := discordgo.New("Bot " + b.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	b.session = session

	if err := b.connect(); err != nil {
		return err
	}

	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}
	b.buildHandlerMap()

	session.AddHandler(b.handleInteraction)
	session.AddHandler(b.handleMessageCreate)
	for _, mod := range b.modules {
		for _, handler := range mod.EventHandlers() {
			session.AddHandler(handler)
		}
	}

	if err := session.UpdateGameStatus(0, "type "+b.config.DefaultPrefix+"help"); err != nil {
		slog.Warn("failed to update presence", "error", err)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	slog.Info("started bot",
		"user_id", session.State.User.ID,
		"username", session.State.User.Username,
		"commands", len(b.commands),
	)
	return nil
}

// connect opens the gateway and waits for READY, after which the bot's own
// user is known to modules tracking their voice state.
func (b *Bot) connect() error {
	ready := make(chan struct{})
	removeReady := b.session.AddHandlerOnce(func(*discordgo.Session, *discordgo.Ready) {
		close(ready)
	})

	if err := b.session.Open(); err != nil {
		removeReady()
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	select {
	case <-ready:
		return nil
	case <-time.After(readyTimeout):
		return errors.New("timed out waiting for Discord ready event")
	}
}

// Stop shuts the modules down in parallel, then closes the gateway. A module
// failing to shut down is logged and does not hold up the rest.
func (b *Bot) Stop() error {
	var g errgroup.Group
	for _, mod := range b.modules {
		g.Go(func() error {
			if err := mod.Shutdown(); err != nil {
				slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if b.session == nil {
		return nil
	}
	return b.session.Close()
}

func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Session:  b.session,
		Config:   b.config,
		DB:       b.db,
		Prefixes: b.prefixes,
	}

	names := make([]string, 0, len(b.modules))
	for _, mod := range b.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		names = append(names, mod.Name())
	}

	slog.Info("initialized modules", "modules", names)
	return nil
}

// buildHandlerMap indexes every module's commands and handlers by name.
// A command without a handler is still published and answers as unknown.
func (b *Bot) buildHandlerMap() {
	for _, mod := range b.modules {
		handlers := mod.CommandHandlers()
		for name, handler := range handlers {
			b.handlers[name] = handler
		}
		for _, cmd := range mod.Commands() {
			if _, ok := handlers[cmd.Name]; !ok {
				slog.Warn("command has no handler", "module", mod.Name(), "command", cmd.Name)
			}
			b.commands[cmd.Name] = cmd
		}
	}
}

// collectCommands returns the published commands sorted by name.
func (b *Bot) collectCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, mod := range b.modules {
		commands = append(commands, mod.Commands()...)
	}
	slices.SortFunc(commands, func(x, y *discordgo.ApplicationCommand) int {
		return cmp.Compare(x.Name, y.Name)
	})
	return commands
}

// registerCommands replaces the application's slash commands with the loaded
// set, dropping any left over from earlier versions. An empty GuildID
// publishes them globally.
func (b *Bot) registerCommands() error {
	registered, err := b.session.ApplicationCommandBulkOverwrite(
		b.session.State.User.ID,
		b.config.GuildID,
		b.collectCommands(),
	)
	if err != nil {
		return err
	}

	slog.Debug("registered commands", "count", len(registered), "guild", b.config.GuildID)
	return nil
}
