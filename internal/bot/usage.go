package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// usage renders a one-line synopsis such as "remove <position>" or "queue [page]".
func usage(cmd *discordgo.ApplicationCommand) string {
	var b strings.Builder
	b.WriteString(cmd.Name)

	options := cmd.Options
	if len(options) > 0 && isSubcommand(options[0].Type) {
		names := make([]string, len(options))
		for i, opt := range options {
			names[i] = opt.Name
		}
		b.WriteString(" <" + strings.Join(names, "|") + ">")
		return b.String()
	}

	for _, opt := range options {
		if opt.Required {
			b.WriteString(" <" + opt.Name + ">")
		} else {
			b.WriteString(" [" + opt.Name + "]")
		}
	}
	return b.String()
}

// Usage renders a command synopsis for help text.
func Usage(cmd *discordgo.ApplicationCommand) string {
	return usage(cmd)
}

func parseOptionalID(raw string) (snowflake.ID, error) {
	if raw == "" {
		return 0, nil
	}
	return snowflake.Parse(raw)
}
