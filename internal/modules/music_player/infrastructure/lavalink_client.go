package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// voiceConnectionTimeout bounds how long joining a voice channel may take.
const voiceConnectionTimeout = 10 * time.Second

// ErrNoNode is returned when no Lavalink node is connected.
var ErrNoNode = errors.New("no available Lavalink node")

// Compile-time interface checks.
var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)

// LavalinkConfig holds the node connection settings.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter plays audio through a Lavalink node with DisGoLink and
// joins voice channels through the Discord gateway.
type LavalinkAdapter struct {
	link      disgolink.Client
	session   *discordgo.Session
	botID     snowflake.ID
	publisher ports.EventPublisher

	voiceMu    sync.Mutex
	handshakes map[snowflake.ID]*voiceHandshake

	// failures holds a track exception until the track end that follows it.
	failureMu sync.Mutex
	failures  map[snowflake.ID]string
}

// NewLavalinkAdapter connects to the node. Track ends are published to publisher.
func NewLavalinkAdapter(
	session *discordgo.Session,
	publisher ports.EventPublisher,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	a := &LavalinkAdapter{
		session:    session,
		botID:      botID,
		publisher:  publisher,
		handshakes: make(map[snowflake.ID]*voiceHandshake),
		failures:   make(map[snowflake.ID]string),
	}
	a.link = disgolink.New(botID,
		disgolink.WithListenerFunc(a.onTrackStart),
		disgolink.WithListenerFunc(a.onTrackEnd),
		disgolink.WithListenerFunc(a.onTrackException),
		disgolink.WithListenerFunc(a.onTrackStuck),
	)

	node, err := a.link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)
	return a, nil
}

// BotID returns the bot user whose voice state the adapter follows.
func (a *LavalinkAdapter) BotID() snowflake.ID {
	return a.botID
}

// Close disconnects from the node.
func (a *LavalinkAdapter) Close() {
	a.link.Close()
}

// JoinChannel moves the bot into a voice channel and returns once Lavalink
// has what it needs to stream there.
func (a *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	done := a.handshake(guildID).expect(channelID)

	err := a.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	timer := time.NewTimer(voiceConnectionTimeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to join voice channel: %w", ctx.Err())
	case <-timer.C:
		return errors.New("timed out waiting for voice connection")
	}
}

// LeaveChannel destroys the guild's player and leaves voice.
func (a *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	if player := a.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	if err := a.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts a track, replacing whatever is playing.
func (a *LavalinkAdapter) Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error {
	// The encoded form avoids sending userData as null.
	if err := a.link.Player(guildID).Update(ctx, lavalink.WithEncodedTrack(track.Encoded)); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

// Stop clears the current track. Guilds without a player are left alone.
func (a *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := a.link.ExistingPlayer(guildID)
	if player == nil {
		return nil
	}
	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Pause pauses the current track.
func (a *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID) error {
	return a.setPaused(ctx, guildID, true)
}

// Resume continues a paused track.
func (a *LavalinkAdapter) Resume(ctx context.Context, guildID snowflake.ID) error {
	return a.setPaused(ctx, guildID, false)
}

func (a *LavalinkAdapter) setPaused(ctx context.Context, guildID snowflake.ID, paused bool) error {
	if err := a.link.Player(guildID).Update(ctx, lavalink.WithPaused(paused)); err != nil {
		return fmt.Errorf("failed to set paused=%t: %w", paused, err)
	}
	return nil
}

// LoadTracks resolves a query on the least loaded node.
func (a *LavalinkAdapter) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	node := a.link.BestNode()
	if node == nil {
		return nil, ErrNoNode
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return convertLoadResult(result), nil
}

// OnVoiceServerUpdate feeds the gateway's voice server to Lavalink.
func (a *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	if creds, ok := a.handshake(guildID).setServer(event.Token, event.Endpoint); ok {
		a.forward(guildID, creds)
	}
}

// OnVoiceStateUpdate feeds the bot's own voice state to Lavalink.
func (a *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.VoiceState == nil || event.UserID != a.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	// Disconnects need no server half.
	if event.ChannelID == "" {
		a.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		a.voiceMu.Lock()
		delete(a.handshakes, guildID)
		a.voiceMu.Unlock()
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	if creds, ok := a.handshake(guildID).setState(&channelID, event.SessionID); ok {
		a.forward(guildID, creds)
	}
}

func (a *LavalinkAdapter) handshake(guildID snowflake.ID) *voiceHandshake {
	a.voiceMu.Lock()
	defer a.voiceMu.Unlock()

	h, ok := a.handshakes[guildID]
	if !ok {
		h = newVoiceHandshake()
		a.handshakes[guildID] = h
	}
	return h
}

// forward sends the state before the server; Lavalink needs them in that order.
func (a *LavalinkAdapter) forward(guildID snowflake.ID, creds voiceCredentials) {
	slog.Debug("forwarding voice credentials to Lavalink", "guild", guildID, "channel", creds.channelID)

	ctx := context.Background()
	a.link.OnVoiceStateUpdate(ctx, guildID, creds.channelID, creds.sessionID)
	a.link.OnVoiceServerUpdate(ctx, guildID, creds.token, creds.endpoint)
}

func (a *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("started track", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (a *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	guildID := player.GuildID()
	slog.Debug("ended track", "guild", guildID, "reason", event.Reason)

	a.failureMu.Lock()
	message := a.failures[guildID]
	delete(a.failures, guildID)
	a.failureMu.Unlock()

	a.publisher.PublishTrackEnded(domain.TrackEndedEvent{
		GuildID: guildID,
		Encoded: event.Track.Encoded,
		Reason:  convertEndReason(event.Reason),
		Message: message,
	})
}

func (a *LavalinkAdapter) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	guildID := player.GuildID()
	slog.Warn("track failed", "guild", guildID, "error", event.Exception.Message)

	a.failureMu.Lock()
	a.failures[guildID] = event.Exception.Message
	a.failureMu.Unlock()
}

func (a *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}
