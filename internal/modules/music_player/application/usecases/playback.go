package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
	"golang.org/x/sync/errgroup"
)

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID               snowflake.ID
	VoiceChannelID        snowflake.ID // Voice channel the requester is in
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	RequesterID           snowflake.ID
	Track                 *domain.Track
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	Entry *domain.QueueEntry

	// Position is the 1-indexed queue position of the entry, or 0 if it started playing.
	Position int

	// Started is the entry that began playing because the player was idle.
	// It can be an older entry left in the queue by an earlier failure.
	Started *domain.QueueEntry

	// Resumed is true if the player was paused and has been resumed.
	Resumed bool
}

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	Skipped *domain.QueueEntry
	Next    *domain.QueueEntry // nil if the queue was empty
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID snowflake.ID
}

// StopOutput contains the result of the Stop use case.
type StopOutput struct {
	WasActive bool // false if there was nothing to stop
}

// PlaybackService coordinates the per-guild playback state machine:
// Idle, Connecting, Playing and Paused.
type PlaybackService struct {
	repo       domain.PlayerStateRepository
	locks      *GuildLocks
	audio      ports.AudioPlayer
	voice      ports.VoiceConnection
	voiceState ports.VoiceStateProvider
	publisher  ports.EventPublisher
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.PlayerStateRepository,
	locks *GuildLocks,
	audio ports.AudioPlayer,
	voice ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	publisher ports.EventPublisher,
) *PlaybackService {
	return &PlaybackService{
		repo:       repo,
		locks:      locks,
		audio:      audio,
		voice:      voice,
		voiceState: voiceState,
		publisher:  publisher,
	}
}

// RequireVoiceChannel returns the voice channel the user is in, or ErrUserNotInVoice.
// Outside a guild there is no voice channel to be in.
func (p *PlaybackService) RequireVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	if guildID == 0 {
		return 0, ErrUserNotInVoice
	}
	channelID, err := p.voiceState.UserVoiceChannel(guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up voice state: %w", err)
	}
	if channelID == 0 {
		return 0, ErrUserNotInVoice
	}
	return channelID, nil
}

// Status returns the guild's playback status.
func (p *PlaybackService) Status(guildID snowflake.ID) domain.PlaybackStatus {
	unlock := p.locks.Lock(guildID)
	defer unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return domain.StatusIdle
	}
	return state.Status()
}

// Enqueue appends a resolved track. An idle player starts playing immediately,
// a paused player is resumed, and a playing player leaves the entry waiting.
func (p *PlaybackService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.GetOrCreate(input.GuildID, input.NotificationChannelID)
	state.SetNotificationChannelID(input.NotificationChannelID)

	entry := domain.NewQueueEntry(input.Track, input.VoiceChannelID, input.RequesterID)

	switch state.Status() {
	case domain.StatusIdle:
		state.Queue.Push(entry)
		for {
			started, err := p.advance(ctx, state)
			if err == nil {
				return &EnqueueOutput{
					Entry:    entry,
					Position: state.Queue.IndexOf(entry.ID) + 1,
					Started:  started,
				}, nil
			}
			slog.Warn("failed to start playback",
				"guild", input.GuildID,
				"track", started.Track.Title,
				"source", started.Track.URI,
				"error", err,
			)
			// The requester hears about their own entry through the error.
			if started.ID == entry.ID {
				p.discardIfUnused(state)
				return nil, err
			}
			p.publishFailed(state, started, err.Error())
		}

	case domain.StatusPaused:
		if err := p.audio.Resume(ctx, input.GuildID); err != nil {
			return nil, fmt.Errorf("failed to resume playback: %w", err)
		}
		if err := state.Resume(); err != nil {
			return nil, err
		}
		return &EnqueueOutput{
			Entry:    entry,
			Position: state.Queue.Push(entry),
			Resumed:  true,
		}, nil

	default:
		return &EnqueueOutput{
			Entry:    entry,
			Position: state.Queue.Push(entry),
		}, nil
	}
}

// HandleTrackEnded advances the queue when the transport reports that the
// current track finished or failed. Ends caused by the coordinator itself and
// events for tracks that are no longer current are ignored.
func (p *PlaybackService) HandleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	if !event.Reason.ShouldAdvanceQueue() {
		return
	}

	unlock := p.locks.Lock(event.GuildID)
	defer unlock()

	state := p.repo.Get(event.GuildID)
	if state == nil {
		return
	}

	current := state.Current()
	if current == nil || current.Track.Encoded != event.Encoded {
		slog.Debug("ignored stale track end", "guild", event.GuildID, "reason", event.Reason)
		return
	}

	if event.Reason == domain.TrackEndLoadFailed {
		p.publishFailed(state, current, event.Message)
	}

	p.advanceSkippingFailures(ctx, state)
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input PauseInput) error {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return ErrNotPlaying
	}
	state.SetNotificationChannelID(input.NotificationChannelID)

	switch state.Status() {
	case domain.StatusPaused:
		return ErrAlreadyPaused
	case domain.StatusPlaying:
	default:
		return ErrNotPlaying
	}

	if err := p.audio.Pause(ctx, input.GuildID); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}

	return state.Pause()
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, input ResumeInput) error {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return ErrNotPlaying
	}
	state.SetNotificationChannelID(input.NotificationChannelID)

	switch state.Status() {
	case domain.StatusPlaying:
		return ErrNotPaused
	case domain.StatusPaused:
	default:
		return ErrNotPlaying
	}

	if err := p.audio.Resume(ctx, input.GuildID); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}

	return state.Resume()
}

// Skip replaces the streaming track with the next queued one, or stops the
// transport if nothing is waiting.
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return nil, ErrNotPlaying
	}
	state.SetNotificationChannelID(input.NotificationChannelID)

	switch state.Status() {
	case domain.StatusPlaying:
	case domain.StatusPaused:
		return nil, ErrSkipWhilePaused
	default:
		return nil, ErrNotPlaying
	}

	skipped := state.Current()
	next := p.advanceSkippingFailures(ctx, state)
	if next == nil {
		slog.Debug("skipped last track, player is idle", "guild", input.GuildID)
	}

	return &SkipOutput{
		Skipped: skipped,
		Next:    next,
	}, nil
}

// Stop disconnects from voice and discards the guild's queue and state.
// Stopping an idle guild is not an error.
func (p *PlaybackService) Stop(ctx context.Context, input StopInput) (*StopOutput, error) {
	unlock := p.locks.Lock(input.GuildID)
	defer unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return &StopOutput{WasActive: false}, nil
	}

	wasActive := state.Current() != nil || !state.Queue.IsEmpty() || state.IsConnected()
	p.teardown(ctx, state, true)

	return &StopOutput{WasActive: wasActive}, nil
}

// Teardown releases everything held for a guild, e.g. when the bot is removed from it.
func (p *PlaybackService) Teardown(ctx context.Context, guildID snowflake.ID) {
	unlock := p.locks.Lock(guildID)
	defer unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return
	}
	p.teardown(ctx, state, true)
}

// HandleBotVoiceStateChange reconciles the state with the bot's actual voice channel.
// A disconnect made outside the coordinator tears the guild down; a move
// updates the connected channel.
func (p *PlaybackService) HandleBotVoiceStateChange(
	ctx context.Context,
	guildID, channelID snowflake.ID,
) {
	unlock := p.locks.Lock(guildID)
	defer unlock()

	state := p.repo.Get(guildID)
	if state == nil || !state.IsConnected() {
		return
	}

	switch channelID {
	case state.ConnectedChannelID():
		return
	case 0:
		slog.Info("bot was disconnected from voice, tearing down player", "guild", guildID)
		p.teardown(ctx, state, false)
	default:
		slog.Debug("bot was moved to another voice channel",
			"guild", guildID,
			"from", state.ConnectedChannelID(),
			"to", channelID,
		)
		state.SetConnected(channelID)
	}
}

// Shutdown leaves every voice channel the bot is connected to.
// Errors are logged and otherwise ignored.
func (p *PlaybackService) Shutdown(ctx context.Context) {
	var g errgroup.Group
	for _, guildID := range p.repo.List() {
		g.Go(func() error {
			p.Teardown(ctx, guildID)
			return nil
		})
	}
	_ = g.Wait()
}

// SetNowPlayingMessage records the message announcing an entry so it can be
// removed later. It returns false if the entry is no longer current, in which
// case the caller should delete the message itself.
func (p *PlaybackService) SetNowPlayingMessage(
	guildID snowflake.ID,
	msg domain.NowPlayingMessage,
) bool {
	unlock := p.locks.Lock(guildID)
	defer unlock()

	state := p.repo.Get(guildID)
	if state == nil || state.Current() == nil || state.Current().ID != msg.EntryID {
		return false
	}

	if previous := state.TakeNowPlayingMessage(); previous != nil {
		p.publisher.PublishPlaybackFinished(domain.PlaybackFinishedEvent{
			GuildID: guildID,
			Message: *previous,
		})
	}
	state.SetNowPlayingMessage(msg)
	return true
}

// advance pops the next entry and starts streaming it, joining or moving the
// voice connection when the entry asks for another channel. An empty queue
// leaves the player idle. On failure the player is idle and the popped entry
// is returned with the error, then dropped. Must be called with the guild lock held.
func (p *PlaybackService) advance(ctx context.Context, state *domain.PlayerState) (*domain.QueueEntry, error) {
	guildID := state.GuildID()
	p.finishNowPlaying(state)

	entry := state.BeginAdvance()
	if entry == nil {
		if state.IsConnected() {
			if err := p.audio.Stop(ctx, guildID); err != nil {
				slog.Warn("failed to stop playback", "guild", guildID, "error", err)
			}
		}
		return nil, nil
	}

	if state.ConnectedChannelID() != entry.VoiceChannelID {
		if err := p.voice.JoinChannel(ctx, guildID, entry.VoiceChannelID); err != nil {
			state.SetIdle()
			return entry, fmt.Errorf("failed to join voice channel: %w", err)
		}
		state.SetConnected(entry.VoiceChannelID)
	}

	if err := p.audio.Play(ctx, guildID, entry.Track); err != nil {
		state.SetIdle()
		return entry, fmt.Errorf("failed to play %q: %w", entry.Track.Title, err)
	}

	if err := state.StartPlaying(); err != nil {
		state.SetIdle()
		return entry, err
	}

	slog.Debug("started track",
		"guild", guildID,
		"track", entry.Track.Title,
		"source", entry.Track.URI,
	)

	p.publisher.PublishPlaybackStarted(domain.PlaybackStartedEvent{
		GuildID:               guildID,
		Entry:                 entry,
		NotificationChannelID: state.NotificationChannelID(),
	})

	return entry, nil
}

// advanceSkippingFailures advances until an entry starts streaming or the
// queue is exhausted. Each entry that fails to start is reported and dropped.
// Must be called with the guild lock held.
func (p *PlaybackService) advanceSkippingFailures(ctx context.Context, state *domain.PlayerState) *domain.QueueEntry {
	for {
		entry, err := p.advance(ctx, state)
		if err == nil {
			return entry
		}
		slog.Error("failed to start queued track",
			"guild", state.GuildID(),
			"track", entry.Track.Title,
			"error", err,
		)
		p.publishFailed(state, entry, err.Error())
	}
}

// teardown stops the transport, optionally leaves voice, and deletes the state.
func (p *PlaybackService) teardown(ctx context.Context, state *domain.PlayerState, leave bool) {
	guildID := state.GuildID()
	p.finishNowPlaying(state)

	if state.IsConnected() {
		if err := p.audio.Stop(ctx, guildID); err != nil {
			slog.Warn("failed to stop playback", "guild", guildID, "error", err)
		}
		if leave {
			if err := p.voice.LeaveChannel(ctx, guildID); err != nil {
				slog.Warn("failed to leave voice channel", "guild", guildID, "error", err)
			}
		}
	}

	state.Reset()
	p.repo.Delete(guildID)
}

// discardIfUnused removes a state that never got connected and holds nothing.
func (p *PlaybackService) discardIfUnused(state *domain.PlayerState) {
	if !state.IsConnected() && state.Queue.IsEmpty() && state.Current() == nil {
		p.repo.Delete(state.GuildID())
	}
}

func (p *PlaybackService) finishNowPlaying(state *domain.PlayerState) {
	msg := state.TakeNowPlayingMessage()
	if msg == nil {
		return
	}
	p.publisher.PublishPlaybackFinished(domain.PlaybackFinishedEvent{
		GuildID: state.GuildID(),
		Message: *msg,
	})
}

func (p *PlaybackService) publishFailed(state *domain.PlayerState, entry *domain.QueueEntry, reason string) {
	p.publisher.PublishPlaybackFailed(domain.PlaybackFailedEvent{
		GuildID:               state.GuildID(),
		Entry:                 entry,
		NotificationChannelID: state.NotificationChannelID(),
		Reason:                reason,
	})
}
