package tasks

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/storage"
)

const notConfiguredMessage = "Tasks are not available because no database is configured."

func init() {
	bot.Register(&TasksModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*TasksModule)(nil)

// Config holds the tasks module configuration.
type Config struct {
	EditTimeout time.Duration `env:"TASK_EDIT_TIMEOUT" envDefault:"60s"`
}

// TasksModule provides the task command.
type TasksModule struct {
	config  *Config
	waiter  *MessageWaiter
	handler *Handler
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Commands returns the commands for this module.
func (m *TasksModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{Command()}
}

// CommandHandlers returns the command handlers for this module.
func (m *TasksModule) CommandHandlers() map[string]bot.CommandHandler {
	if m.handler == nil {
		return map[string]bot.CommandHandler{
			"task": func(_ *discordgo.Session, _ *bot.Invocation, r bot.Responder) error {
				return r.Reply(&bot.Reply{Content: notConfiguredMessage, Ephemeral: true})
			},
		}
	}
	return map[string]bot.CommandHandler{
		"task": m.handler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *TasksModule) EventHandlers() []bot.EventHandler {
	if m.waiter == nil {
		return nil
	}
	return []bot.EventHandler{m.waiter.HandleMessageCreate}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *TasksModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *TasksModule) Init(deps bot.ModuleDependencies) error {
	if deps.DB == nil {
		slog.Warn("tasks module loaded without a database, tasks disabled")
		return nil
	}
	if m.config == nil {
		m.config = &Config{EditTimeout: 60 * time.Second}
	}

	m.waiter = NewMessageWaiter()
	m.handler = NewHandler(storage.NewTaskRepository(deps.DB), m.waiter, m.config.EditTimeout)
	return nil
}

// Shutdown cleans up module resources.
func (m *TasksModule) Shutdown() error {
	return nil
}
