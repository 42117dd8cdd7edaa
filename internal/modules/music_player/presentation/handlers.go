package presentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
)

// maxLyricsPages bounds how many messages a single lyrics request may produce.
const maxLyricsPages = 5

// Playback is the part of the playback coordinator the commands drive.
type Playback interface {
	RequireVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
	Enqueue(ctx context.Context, input usecases.EnqueueInput) (*usecases.EnqueueOutput, error)
	Pause(ctx context.Context, input usecases.PauseInput) error
	Resume(ctx context.Context, input usecases.ResumeInput) error
	Skip(ctx context.Context, input usecases.SkipInput) (*usecases.SkipOutput, error)
	Stop(ctx context.Context, input usecases.StopInput) (*usecases.StopOutput, error)
}

// Queue lists and edits waiting entries.
type Queue interface {
	List(ctx context.Context, input usecases.QueueListInput) *usecases.QueueListOutput
	Remove(ctx context.Context, input usecases.QueueRemoveInput) (*usecases.QueueRemoveOutput, error)
	Clear(ctx context.Context, input usecases.QueueClearInput) (*usecases.QueueClearOutput, error)
	Entries(guildID snowflake.ID) []*usecases.QueueEntry
}

// TrackLoader turns queries into tracks.
type TrackLoader interface {
	Resolve(ctx context.Context, input usecases.ResolveInput) (*usecases.ResolveOutput, error)
	SearchTracks(ctx context.Context, input usecases.SearchTracksInput) (*usecases.SearchTracksOutput, error)
}

// Lyrics looks up lyrics for the current track.
type Lyrics interface {
	Lyrics(ctx context.Context, input usecases.LyricsInput) (*usecases.LyricsOutput, error)
}

// Handlers holds all the command handlers.
type Handlers struct {
	playback    Playback
	queue       Queue
	trackLoader TrackLoader
	lyrics      Lyrics
}

// NewHandlers creates new Handlers.
func NewHandlers(
	playback Playback,
	queue Queue,
	trackLoader TrackLoader,
	lyrics Lyrics,
) *Handlers {
	return &Handlers{
		playback:    playback,
		queue:       queue,
		trackLoader: trackLoader,
		lyrics:      lyrics,
	}
}

// CommandHandlers maps command names to handlers.
func (h *Handlers) CommandHandlers() map[string]bot.CommandHandler {
	return map[string]bot.CommandHandler{
		cmdPlay:   h.HandlePlay,
		cmdPause:  h.HandlePause,
		cmdResume: h.HandleResume,
		cmdSkip:   h.HandleSkip,
		cmdQueue:  h.HandleQueue,
		cmdStop:   h.HandleStop,
		cmdRemove: h.HandleRemove,
		cmdClear:  h.HandleClear,
		cmdLyrics: h.HandleLyrics,
	}
}

// HandlePlay handles the play command. Resolution and connecting can be slow,
// so the invocation is acknowledged first.
func (h *Handlers) HandlePlay(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	ctx := context.Background()

	voiceChannelID, err := h.playback.RequireVoiceChannel(inv.GuildID, inv.UserID)
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.DeferThenFollowUp(false, func() (*bot.Reply, error) {
		resolved, err := h.trackLoader.Resolve(ctx, usecases.ResolveInput{Query: inv.String("query")})
		if err != nil {
			if message, ok := userMessage(err); ok {
				return errorReply(message), nil
			}
			slog.Warn("failed to resolve track", "guild", inv.GuildID, "error", err)
			return errorReply("Failed to load the track. Please try again later."), nil
		}

		output, err := h.playback.Enqueue(ctx, usecases.EnqueueInput{
			GuildID:               inv.GuildID,
			VoiceChannelID:        voiceChannelID,
			NotificationChannelID: inv.ChannelID,
			RequesterID:           inv.UserID,
			Track:                 resolved.Track,
		})
		if err != nil {
			return usecaseErrorReply(err)
		}

		return enqueuedReply(output), nil
	})
}

// HandlePause handles the pause command.
func (h *Handlers) HandlePause(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	err := h.playback.Pause(context.Background(), usecases.PauseInput{
		GuildID:               inv.GuildID,
		NotificationChannelID: inv.ChannelID,
	})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.Reply(successReply("Paused the current song."))
}

// HandleResume handles the resume command.
func (h *Handlers) HandleResume(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	err := h.playback.Resume(context.Background(), usecases.ResumeInput{
		GuildID:               inv.GuildID,
		NotificationChannelID: inv.ChannelID,
	})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.Reply(successReply("Resumed the current song."))
}

// HandleSkip handles the skip command.
func (h *Handlers) HandleSkip(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	output, err := h.playback.Skip(context.Background(), usecases.SkipInput{
		GuildID:               inv.GuildID,
		NotificationChannelID: inv.ChannelID,
	})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.Reply(skippedReply(output))
}

// HandleQueue handles the queue command.
func (h *Handlers) HandleQueue(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	page, err := inv.Int("page", 1)
	if err != nil {
		return r.Reply(errorReply(err.Error()))
	}

	output := h.queue.List(context.Background(), usecases.QueueListInput{
		GuildID: inv.GuildID,
		Page:    int(page),
	})

	return r.Reply(&bot.Reply{Embeds: []*discordgo.MessageEmbed{queueEmbed(output)}})
}

// HandleStop handles the stop command. Stopping an idle guild still succeeds.
func (h *Handlers) HandleStop(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	output, err := h.playback.Stop(context.Background(), usecases.StopInput{GuildID: inv.GuildID})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	if !output.WasActive {
		return r.Reply(successReply("Nothing is playing."))
	}
	return r.Reply(successReply("Stopped playing music and cleared the queue."))
}

// HandleRemove handles the remove command.
func (h *Handlers) HandleRemove(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	position, err := inv.Int("position", 0)
	if err != nil {
		return r.Reply(errorReply(err.Error()))
	}

	output, err := h.queue.Remove(context.Background(), usecases.QueueRemoveInput{
		GuildID:  inv.GuildID,
		Position: int(position),
	})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.Reply(successReply(fmt.Sprintf(
		"Removed **#%d - %s** from the queue.",
		position,
		trackLink(output.Removed.Track),
	)))
}

// HandleClear handles the clear command.
func (h *Handlers) HandleClear(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	output, err := h.queue.Clear(context.Background(), usecases.QueueClearInput{GuildID: inv.GuildID})
	if err != nil {
		return respondUsecaseError(r, err)
	}

	return r.Reply(successReply(fmt.Sprintf(
		"Music queue cleared (%d %s removed).",
		output.ClearedCount,
		plural(output.ClearedCount, "track", "tracks"),
	)))
}

// HandleLyrics handles the lyrics command. The lookup goes to a remote API,
// so the invocation is acknowledged first; long lyrics continue in follow-ups.
func (h *Handlers) HandleLyrics(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	var rest []*discordgo.MessageEmbed

	err := r.DeferThenFollowUp(false, func() (*bot.Reply, error) {
		output, err := h.lyrics.Lyrics(context.Background(), usecases.LyricsInput{GuildID: inv.GuildID})
		if err != nil {
			if message, ok := userMessage(err); ok {
				return errorReply(message), nil
			}
			slog.Warn("failed to fetch lyrics", "guild", inv.GuildID, "error", err)
			return errorReply("Could not fetch lyrics. Please try again later."), nil
		}

		pages := lyricsEmbeds(output.Track, output.Lyrics, maxLyricsPages)
		rest = pages[1:]
		return &bot.Reply{Embeds: pages[:1]}, nil
	})
	if err != nil {
		return err
	}

	for _, page := range rest {
		if err := r.Reply(&bot.Reply{Embeds: []*discordgo.MessageEmbed{page}}); err != nil {
			return err
		}
	}
	return nil
}

// usecaseErrorReply turns a user-facing error into an error reply for deferred
// work. Other errors are returned so the bot reports them.
func usecaseErrorReply(err error) (*bot.Reply, error) {
	if message, ok := userMessage(err); ok {
		return errorReply(message), nil
	}
	return nil, err
}

// respondUsecaseError replies with guidance for user-facing errors and
// returns anything else for the bot to report.
func respondUsecaseError(r bot.Responder, err error) error {
	message, ok := userMessage(err)
	if !ok {
		return err
	}
	return r.Reply(errorReply(message))
}

// userMessage maps precondition and input errors to guidance for the user.
func userMessage(err error) (string, bool) {
	var positionErr *usecases.PositionError
	if errors.As(err, &positionErr) {
		if positionErr.Max == 1 {
			return "There is only one track in the queue; use position 1.", true
		}
		return fmt.Sprintf("Position must be between 1 and %d.", positionErr.Max), true
	}

	var resolutionErr *usecases.ResolutionError
	if errors.As(err, &resolutionErr) {
		if errors.Is(err, usecases.ErrNoResults) {
			return fmt.Sprintf("Nothing found for **%s**. Please try another keyword.", resolutionErr.Query), true
		}
		message := "Could not load the song. Incorrect format or unsupported type. Please try another keyword."
		if resolutionErr.Message != "" {
			message += "\n" + resolutionErr.Message
		}
		return message, true
	}

	switch {
	case errors.Is(err, usecases.ErrUserNotInVoice):
		return "You need to connect to a voice channel first!", true
	case errors.Is(err, usecases.ErrNotPlaying):
		return "No song is currently playing.", true
	case errors.Is(err, usecases.ErrAlreadyPaused):
		return "Playback is already paused.", true
	case errors.Is(err, usecases.ErrNotPaused):
		return "Playback is not paused.", true
	case errors.Is(err, usecases.ErrSkipWhilePaused):
		return "Playback is paused. Resume it before skipping.", true
	case errors.Is(err, usecases.ErrEmptyQuery):
		return "Please provide a song name or URL.", true
	case errors.Is(err, usecases.ErrQueueEmpty):
		return "No music in queue.", true
	case errors.Is(err, usecases.ErrLyricsNotFound):
		return "Lyrics not found.", true
	}
	return "", false
}
