package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
)

const colorHelp = 0x5865F2

// PrefixResolver returns the message-command prefix of a guild.
type PrefixResolver interface {
	Prefix(ctx context.Context, guildID snowflake.ID) string
}

// CommandLister returns every command the bot offers.
type CommandLister func() []*discordgo.ApplicationCommand

// HelpHandler handles the help command.
type HelpHandler struct {
	prefixes PrefixResolver
	commands CommandLister
}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler(prefixes PrefixResolver, commands CommandLister) *HelpHandler {
	return &HelpHandler{
		prefixes: prefixes,
		commands: commands,
	}
}

// Handle lists every command, written the way it is typed in this guild.
func (h *HelpHandler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	prefix := h.prefixes.Prefix(context.Background(), inv.GuildID)

	var b strings.Builder
	for _, cmd := range h.commands() {
		fmt.Fprintf(&b, "`%s%s` - %s\n", prefix, bot.Usage(cmd), cmd.Description)
	}

	return r.Reply(&bot.Reply{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Commands",
				Description: b.String(),
				Color:       colorHelp,
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("Prefix: %s • Every command also works as a slash command", prefix),
				},
			},
		},
	})
}
