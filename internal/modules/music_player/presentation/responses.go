package presentation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
	colorQueue   = 0xE67E22
)

// maxEmbedDescription is Discord's limit on an embed description, in characters.
const maxEmbedDescription = 4096

func successReply(description string) *bot.Reply {
	return &bot.Reply{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: description,
				Color:       colorSuccess,
			},
		},
	}
}

func errorReply(description string) *bot.Reply {
	return &bot.Reply{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Error",
				Description: description,
				Color:       colorError,
			},
		},
	}
}

// trackLink renders a track title, linked when it has a URI.
func trackLink(track *usecases.Track) string {
	if track.URI != "" {
		return fmt.Sprintf("[%s](%s)", escapeLinkText(track.Title), track.URI)
	}
	return track.Title
}

// escapeLinkText keeps brackets in titles from breaking markdown links.
func escapeLinkText(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func enqueuedReply(output *usecases.EnqueueOutput) *bot.Reply {
	track := output.Entry.Track

	var description string
	switch {
	case output.Started == output.Entry:
		description = fmt.Sprintf("Now playing **%s** (Duration: %s)", trackLink(track), track.DurationLabel())
	case output.Started != nil:
		description = fmt.Sprintf(
			"**#%d - %s** (Duration: %s) added to the queue.\nNow playing **%s**",
			output.Position,
			trackLink(track),
			track.DurationLabel(),
			trackLink(output.Started.Track),
		)
	default:
		description = fmt.Sprintf(
			"**#%d - %s** (Duration: %s) added to the queue.",
			output.Position,
			trackLink(track),
			track.DurationLabel(),
		)
	}
	if output.Resumed {
		description += "\nResumed playback."
	}

	reply := successReply(description)
	if track.ArtworkURL != "" {
		reply.Embeds[0].Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}
	return reply
}

func skippedReply(output *usecases.SkipOutput) *bot.Reply {
	description := fmt.Sprintf("Skipped **%s**.", trackLink(output.Skipped.Track))
	if output.Next != nil {
		description += fmt.Sprintf("\nNow playing **%s**", trackLink(output.Next.Track))
	} else {
		description += "\nThe queue is empty."
	}
	return successReply(description)
}

// queueEmbed renders the current track and one page of waiting entries.
// An empty queue is rendered explicitly rather than as an empty list.
func queueEmbed(output *usecases.QueueListOutput) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Queue",
		Color: colorQueue,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
		},
	}

	if output.IsEmpty() {
		embed.Description = "No music in queue"
		return embed
	}

	var sb strings.Builder
	if output.Current != nil {
		header := "Now Playing"
		if output.Status == usecases.StatusPaused {
			header = "Now Playing (paused)"
		}
		fmt.Fprintf(&sb, "### %s\n", header)
		track := output.Current.Track
		fmt.Fprintf(&sb, "%s - %s (%s)\n", trackLink(track), track.Artist, track.DurationLabel())
	}

	if output.TotalEntries > 0 {
		sb.WriteString("### Up Next\n")
		for i, entry := range output.Entries {
			track := entry.Track
			// Escape the period to prevent Discord markdown list formatting.
			fmt.Fprintf(
				&sb,
				"%d\\. %s - %s (%s)\n",
				output.Start+i,
				trackLink(track),
				track.Artist,
				track.DurationLabel(),
			)
		}
		embed.Footer.Text += fmt.Sprintf(
			" • %d %s waiting",
			output.TotalEntries,
			plural(output.TotalEntries, "track", "tracks"),
		)
	}

	embed.Description = truncate(sb.String(), maxEmbedDescription)
	return embed
}

// lyricsEmbeds splits lyrics into at most maxPages embeds. Text past the last
// page is cut off with an ellipsis.
func lyricsEmbeds(track *usecases.Track, lyrics string, maxPages int) []*discordgo.MessageEmbed {
	pages := splitPages(lyrics, maxEmbedDescription)
	if len(pages) > maxPages {
		pages = pages[:maxPages]
		pages[maxPages-1] = truncate(pages[maxPages-1]+"…", maxEmbedDescription)
	}

	embeds := make([]*discordgo.MessageEmbed, len(pages))
	for i, page := range pages {
		embeds[i] = &discordgo.MessageEmbed{
			Description: page,
			Color:       colorSuccess,
		}
	}

	embeds[0].Title = truncate(fmt.Sprintf("Lyrics for '%s'", track.Title), 256)
	embeds[0].URL = track.URI
	if len(embeds) > 1 {
		for i, embed := range embeds {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Page %d/%d", i+1, len(embeds)),
			}
		}
	}
	return embeds
}

// splitPages splits text into pages of at most size characters, breaking on
// line boundaries where possible.
func splitPages(text string, size int) []string {
	var pages []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			pages = append(pages, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		lineLen := utf8.RuneCountInString(line)
		if currentLen+lineLen > size {
			flush()
		}
		for lineLen > size {
			runes := []rune(line)
			pages = append(pages, string(runes[:size]))
			line = string(runes[size:])
			lineLen -= size
		}
		current.WriteString(line)
		currentLen += lineLen
	}
	flush()

	if len(pages) == 0 {
		return []string{""}
	}
	return pages
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
