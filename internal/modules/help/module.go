package help

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
)

func init() {
	bot.Register(&HelpModule{})
}

// HelpModule provides help, prefix and send_to_all.
type HelpModule struct {
	help      *HelpHandler
	prefix    *PrefixHandler
	broadcast *BroadcastHandler
}

// Name returns the module name.
func (m *HelpModule) Name() string {
	return "help"
}

// Commands returns the commands for this module.
func (m *HelpModule) Commands() []*discordgo.ApplicationCommand {
	manageGuild := int64(discordgo.PermissionManageGuild)
	administrator := int64(discordgo.PermissionAdministrator)
	guildOnly := false

	return []*discordgo.ApplicationCommand{
		{
			Name:        "help",
			Description: "List the available commands",
		},
		{
			Name:                     "prefix",
			Description:              "Change the command prefix for this server",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "value",
					Description: "The new prefix",
					Required:    true,
				},
			},
		},
		{
			Name:                     "send_to_all",
			Description:              "Send a message to every text channel in this server",
			DefaultMemberPermissions: &administrator,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "message",
					Description: "The message to send",
					Required:    true,
				},
			},
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *HelpModule) CommandHandlers() map[string]bot.CommandHandler {
	return map[string]bot.CommandHandler{
		"help":        m.help.Handle,
		"prefix":      m.prefix.Handle,
		"send_to_all": m.broadcast.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *HelpModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *HelpModule) Init(deps bot.ModuleDependencies) error {
	m.broadcast = NewBroadcastHandler()

	if deps.Prefixes == nil {
		defaultPrefix := "!"
		if deps.Config != nil {
			defaultPrefix = deps.Config.DefaultPrefix
		}
		slog.Warn("help module loaded without a prefix store, prefix changes disabled")
		m.help = NewHelpHandler(fixedPrefix(defaultPrefix), bot.Commands)
		m.prefix = NewPrefixHandler(nil)
		return nil
	}

	m.help = NewHelpHandler(deps.Prefixes, bot.Commands)
	m.prefix = NewPrefixHandler(deps.Prefixes)
	return nil
}

// fixedPrefix resolves every guild to the same prefix.
type fixedPrefix string

func (p fixedPrefix) Prefix(context.Context, snowflake.ID) string {
	return string(p)
}

// Shutdown cleans up module resources.
func (m *HelpModule) Shutdown() error {
	return nil
}
