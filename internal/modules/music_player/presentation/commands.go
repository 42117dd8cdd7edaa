package presentation

import "github.com/bwmarrin/discordgo"

// Command names, shared by the definitions, handlers and autocomplete.
const (
	cmdPlay   = "play"
	cmdPause  = "pause"
	cmdResume = "resume"
	cmdSkip   = "skip"
	cmdQueue  = "queue"
	cmdStop   = "stop"
	cmdRemove = "remove"
	cmdClear  = "clear"
	cmdLyrics = "lyrics"
)

// Commands returns the music command definitions in the order help lists them.
func Commands() []*discordgo.ApplicationCommand {
	one := 1.0

	return []*discordgo.ApplicationCommand{
		command(cmdPlay, "Play a track from a URL or search term", &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "query",
			Description:  "URL or search term",
			Required:     true,
			Autocomplete: true,
		}),
		command(cmdPause, "Pause the current track"),
		command(cmdResume, "Resume the paused track"),
		command(cmdSkip, "Skip to the next track in the queue"),
		command(cmdQueue, "Show the current track and what is waiting", &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Page of the queue to show",
			MinValue:    &one,
		}),
		command(cmdStop, "Stop playback, clear the queue and leave the voice channel"),
		command(cmdRemove, "Remove a waiting track from the queue", &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionInteger,
			Name:         "position",
			Description:  "Queue position as shown by the queue command",
			Required:     true,
			MinValue:     &one,
			Autocomplete: true,
		}),
		command(cmdClear, "Drop every waiting track and keep the current one"),
		command(cmdLyrics, "Show the lyrics of the current track"),
	}
}

// command builds a guild-only command; voice playback has no meaning in DMs.
func command(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	guildOnly := false
	return &discordgo.ApplicationCommand{
		Name:         name,
		Description:  description,
		Options:      options,
		DMPermission: &guildOnly,
	}
}
