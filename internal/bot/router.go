package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
)

const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

const genericFailure = "An error occurred while processing your command."

// permissionFunc returns the permission bits a user has in a channel.
type permissionFunc func(s *discordgo.Session, userID, channelID string) (int64, error)

func channelPermissions(s *discordgo.Session, userID, channelID string) (int64, error) {
	return s.UserChannelPermissions(userID, channelID)
}

// handleInteraction runs slash commands.
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	r := NewInteractionResponder(s, i.Interaction)
	inv, err := NewInteractionInvocation(i)
	if err != nil {
		slog.Error("failed to read interaction", "error", err)
		replyWithEmbed(r, "Error", genericFailure, colorRed)
		return
	}

	b.dispatch(s, inv, r)
}

// handleMessageCreate runs prefixed commands through the slash command
// handlers. Messages from bots and messages that are not commands are
// ignored silently.
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := b.prefixFor(m.GuildID)
	name, args, err := ParseMessageCommand(m.Content, prefix)
	if err != nil {
		return
	}
	cmd, ok := b.commands[name]
	if !ok {
		slog.Debug("ignored unknown message command", "command", name, "guild", m.GuildID)
		return
	}

	r := NewMessageResponder(s, m.Message)
	if !allowedIn(cmd, m.GuildID) {
		replyWithEmbed(r, "Server Only", "This command can only be used in a server.", colorYellow)
		return
	}
	if !b.hasPermission(s, cmd, m) {
		replyWithEmbed(r, "Missing Permissions", "You do not have permission to use this command.", colorYellow)
		return
	}

	inv, err := NewMessageInvocation(m, cmd, args)
	switch {
	case errors.Is(err, ErrMissingOption), errors.Is(err, ErrInvalidOption):
		replyWithEmbed(r, "Usage", fmt.Sprintf("%s\n`%s%s`", err, prefix, usage(cmd)), colorYellow)
	case err != nil:
		slog.Error("failed to read message command", "command", name, "error", err)
	default:
		b.dispatch(s, inv, r)
	}
}

func (b *Bot) prefixFor(guildID string) string {
	if b.prefixes == nil {
		return b.config.DefaultPrefix
	}
	id, err := parseOptionalID(guildID)
	if err != nil {
		return b.prefixes.Default()
	}
	return b.prefixes.Prefix(context.Background(), id)
}

// allowedIn reports whether cmd may run in the given guild. Discord hides
// guild-only slash commands in DMs, but prefixed invocations reach us anyway.
func allowedIn(cmd *discordgo.ApplicationCommand, guildID string) bool {
	return guildID != "" || cmd.DMPermission == nil || *cmd.DMPermission
}

// hasPermission applies a command's default member permissions to prefixed
// invocations, which Discord does not gate the way it gates slash commands.
// Administrators pass every check; direct messages fail any requirement.
func (b *Bot) hasPermission(s *discordgo.Session, cmd *discordgo.ApplicationCommand, m *discordgo.MessageCreate) bool {
	if cmd.DefaultMemberPermissions == nil || *cmd.DefaultMemberPermissions == 0 {
		return true
	}
	if m.GuildID == "" {
		return false
	}

	perms, err := b.permissions(s, m.Author.ID, m.ChannelID)
	if err != nil {
		slog.Warn("failed to resolve member permissions",
			"user", m.Author.ID,
			"channel", m.ChannelID,
			"error", err,
		)
		return false
	}

	required := *cmd.DefaultMemberPermissions
	return perms&discordgo.PermissionAdministrator != 0 || perms&required == required
}

// dispatch runs the command's handler. Errors and panics are logged and
// answered with a generic failure so one bad command cannot take the bot down.
func (b *Bot) dispatch(s *discordgo.Session, inv *Invocation, r Responder) {
	handler, ok := b.handlers[inv.Command]
	if !ok {
		slog.Warn("found no handler for command", "command", inv.Command)
		replyWithEmbed(r, "Unknown Command", "This command is not recognized.", colorYellow)
		return
	}

	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		slog.Error("recovered from panic in command handler",
			"command", inv.Command,
			"guild", inv.GuildID,
			"user", inv.UserID,
			"panic", rec,
			"stack", string(debug.Stack()),
		)
		replyWithEmbed(r, "Error", genericFailure, colorRed)
	}()

	if err := handler(s, inv, r); err != nil {
		slog.Error("failed to handle command",
			"command", inv.Command,
			"subcommand", inv.Subcommand,
			"guild", inv.GuildID,
			"user", inv.UserID,
			"error", err,
		)
		replyWithEmbed(r, "Error", genericFailure, colorRed)
	}
}

func replyWithEmbed(r Responder, title, description string, color int) {
	embed := &discordgo.MessageEmbed{Title: title, Description: description, Color: color}
	if err := r.Reply(&Reply{Embeds: []*discordgo.MessageEmbed{embed}}); err != nil {
		slog.Error("failed to send embed response", "error", err)
	}
}
