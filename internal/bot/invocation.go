package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// Errors returned while building an Invocation from a message.
var (
	ErrNotACommand    = errors.New("message is not a command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingOption  = errors.New("missing required option")
	ErrInvalidOption  = errors.New("invalid option value")
	ErrMissingUser    = errors.New("invocation has no user")
)

// Source identifies how a command was invoked.
type Source int

const (
	SourceInteraction Source = iota
	SourceMessage
)

// Invocation is a transport-neutral command call.
type Invocation struct {
	Command    string
	Subcommand string
	Source     Source

	GuildID   snowflake.ID
	ChannelID snowflake.ID
	UserID    snowflake.ID
	Username  string
	Member    *discordgo.Member

	// Options holds option values keyed by option name, rendered as text.
	Options map[string]string
}

// Option returns the raw value of a named option.
func (inv *Invocation) Option(name string) (string, bool) {
	v, ok := inv.Options[name]
	return v, ok
}

// String returns a named option, or "" if absent.
func (inv *Invocation) String(name string) string {
	return inv.Options[name]
}

// Int returns a named integer option, or fallback if it is absent.
func (inv *Invocation) Int(name string, fallback int64) (int64, error) {
	raw, ok := inv.Options[name]
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidOption, name)
	}
	return v, nil
}

// UserMention returns the mention markup for the invoking user.
func (inv *Invocation) UserMention() string {
	return fmt.Sprintf("<@%d>", inv.UserID)
}

// NewInteractionInvocation builds an Invocation from an application command interaction.
func NewInteractionInvocation(i *discordgo.InteractionCreate) (*Invocation, error) {
	data := i.ApplicationCommandData()

	inv := &Invocation{
		Command: data.Name,
		Source:  SourceInteraction,
		Member:  i.Member,
		Options: make(map[string]string),
	}

	if err := inv.setIDs(i.GuildID, i.ChannelID, interactionUser(i)); err != nil {
		return nil, err
	}

	options := data.Options
	if len(options) > 0 && isSubcommand(options[0].Type) {
		inv.Subcommand = options[0].Name
		options = options[0].Options
	}
	for _, opt := range options {
		inv.Options[opt.Name] = optionText(opt)
	}

	return inv, nil
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (inv *Invocation) setIDs(guildID, channelID string, user *discordgo.User) error {
	if user == nil {
		return ErrMissingUser
	}

	var err error
	if guildID != "" {
		if inv.GuildID, err = snowflake.Parse(guildID); err != nil {
			return fmt.Errorf("failed to parse guild ID: %w", err)
		}
	}
	if inv.ChannelID, err = snowflake.Parse(channelID); err != nil {
		return fmt.Errorf("failed to parse channel ID: %w", err)
	}
	if inv.UserID, err = snowflake.Parse(user.ID); err != nil {
		return fmt.Errorf("failed to parse user ID: %w", err)
	}
	inv.Username = user.Username
	return nil
}

func isSubcommand(t discordgo.ApplicationCommandOptionType) bool {
	return t == discordgo.ApplicationCommandOptionSubCommand ||
		t == discordgo.ApplicationCommandOptionSubCommandGroup
}

func optionText(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionString:
		return opt.StringValue()
	case discordgo.ApplicationCommandOptionInteger:
		return strconv.FormatInt(opt.IntValue(), 10)
	case discordgo.ApplicationCommandOptionBoolean:
		return strconv.FormatBool(opt.BoolValue())
	default:
		return fmt.Sprint(opt.Value)
	}
}

// ParseMessageCommand splits a prefixed message into a command name and its argument text.
func ParseMessageCommand(content, prefix string) (name, args string, err error) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", ErrNotACommand
	}

	rest := strings.TrimSpace(content[len(prefix):])
	if rest == "" {
		return "", "", ErrNotACommand
	}

	name, args, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(args), nil
}

// NewMessageInvocation builds an Invocation from a prefix command, mapping positional
// arguments onto the command's declared options in order. The last string option
// receives the remaining text.
func NewMessageInvocation(
	m *discordgo.MessageCreate,
	cmd *discordgo.ApplicationCommand,
	args string,
) (*Invocation, error) {
	inv := &Invocation{
		Command: cmd.Name,
		Source:  SourceMessage,
		Member:  m.Member,
		Options: make(map[string]string),
	}

	if err := inv.setIDs(m.GuildID, m.ChannelID, m.Author); err != nil {
		return nil, err
	}
	if inv.Member != nil && inv.Member.User == nil {
		inv.Member.User = m.Author
	}

	options := cmd.Options
	if len(options) > 0 && isSubcommand(options[0].Type) {
		name, rest, _ := strings.Cut(args, " ")
		sub := findOption(options, strings.ToLower(name))
		if sub == nil {
			return nil, fmt.Errorf("%w: expected one of %s", ErrMissingOption, optionNames(options))
		}
		inv.Subcommand = sub.Name
		options = sub.Options
		args = strings.TrimSpace(rest)
	}

	if err := mapPositional(inv.Options, options, args); err != nil {
		return nil, err
	}
	return inv, nil
}

func mapPositional(dst map[string]string, options []*discordgo.ApplicationCommandOption, args string) error {
	rest := args
	for idx, opt := range options {
		var value string
		if idx == len(options)-1 && opt.Type == discordgo.ApplicationCommandOptionString {
			value = rest
			rest = ""
		} else {
			value, rest, _ = strings.Cut(rest, " ")
			rest = strings.TrimSpace(rest)
		}

		if value == "" {
			if opt.Required {
				return fmt.Errorf("%w: %s", ErrMissingOption, opt.Name)
			}
			continue
		}

		if len(opt.Choices) > 0 {
			choice := matchChoice(opt.Choices, value)
			if choice == "" {
				return fmt.Errorf("%w: %s must be one of %s", ErrInvalidOption, opt.Name, choiceNames(opt.Choices))
			}
			value = choice
		}
		dst[opt.Name] = value
	}
	return nil
}

func findOption(options []*discordgo.ApplicationCommandOption, name string) *discordgo.ApplicationCommandOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func matchChoice(choices []*discordgo.ApplicationCommandOptionChoice, value string) string {
	for _, c := range choices {
		if strings.EqualFold(c.Name, value) || strings.EqualFold(fmt.Sprint(c.Value), value) {
			return fmt.Sprint(c.Value)
		}
	}
	return ""
}

func optionNames(options []*discordgo.ApplicationCommandOption) string {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}
	return strings.Join(names, ", ")
}

func choiceNames(choices []*discordgo.ApplicationCommandOptionChoice) string {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
