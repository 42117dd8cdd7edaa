package memes

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
)

const (
	defaultSubreddit = "ProgrammerHumor"
	postLimit        = 100

	noNewPostsMessage = "No new posts available at the moment. Please try again later."
	failureMessage    = "Failed to fetch memes. Please try again later."
)

// Subreddits are the subreddits users may pick from.
var Subreddits = []string{"funny", "memes", "dankmemes", "wholesomememes", "ProgrammerHumor"}

// PostSource lists a subreddit's top posts.
type PostSource interface {
	TopOfWeek(ctx context.Context, subreddit string, limit int) ([]Post, error)
}

// Handler handles the meme command.
type Handler struct {
	source PostSource
	picker *Picker
}

// NewHandler creates a new Handler.
func NewHandler(source PostSource, picker *Picker) *Handler {
	return &Handler{
		source: source,
		picker: picker,
	}
}

// Command returns the meme command definition.
func Command() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(Subreddits))
	for i, subreddit := range Subreddits {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: subreddit, Value: subreddit}
	}

	return &discordgo.ApplicationCommand{
		Name:        "meme",
		Description: "Programming related memes (default: r/ProgrammerHumor)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "subreddit",
				Description: "Choose a subreddit",
				Choices:     choices,
			},
		},
	}
}

// Handle posts a random meme not shown before.
func (h *Handler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	subreddit := inv.String("subreddit")
	if subreddit == "" {
		subreddit = defaultSubreddit
	}

	return r.DeferThenFollowUp(false, func() (*bot.Reply, error) {
		posts, err := h.source.TopOfWeek(context.Background(), subreddit, postLimit)
		if err != nil {
			slog.Warn("failed to fetch memes", "subreddit", subreddit, "error", err)
			return &bot.Reply{Content: failureMessage}, nil
		}

		post, err := h.picker.Pick(posts)
		if errors.Is(err, ErrNoNewPosts) {
			return &bot.Reply{Content: noNewPostsMessage}, nil
		}
		if err != nil {
			return nil, err
		}

		return &bot.Reply{Embeds: []*discordgo.MessageEmbed{postEmbed(post)}}, nil
	})
}

func postEmbed(post *Post) *discordgo.MessageEmbed {
	title := []rune(post.Title)
	if len(title) > 256 {
		title = append(title[:253], []rune("...")...)
	}

	embed := &discordgo.MessageEmbed{
		Title: string(title),
		URL:   post.URL,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Score", Value: strconv.Itoa(post.Score), Inline: true},
			{Name: "Subreddit", Value: post.Subreddit, Inline: true},
			{Name: "Author", Value: post.Author, Inline: true},
		},
	}
	if image := post.ImageURL(); image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: image}
	}
	return embed
}
