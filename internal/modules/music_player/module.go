package music_player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/httpclient"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/infrastructure"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/presentation"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/presentation/controls"
	"golang.org/x/time/rate"
)

// shutdownTimeout bounds how long leaving voice channels may take on shutdown.
const shutdownTimeout = 10 * time.Second

const notConfiguredMessage = "Music playback is not configured on this bot."

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	handlers        *presentation.Handlers
	autocomplete    *presentation.AutocompleteHandler
	components      *presentation.ComponentHandler
	eventHandlers   *presentation.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter
	playback        *usecases.PlaybackService
	controls        *controls.Registry
	eventBus        *infrastructure.ChannelEventBus
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
// Without Lavalink every command explains that music is unavailable.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.CommandHandler {
	if m.handlers != nil {
		return m.handlers.CommandHandlers()
	}

	handlers := make(map[string]bot.CommandHandler)
	for _, cmd := range presentation.Commands() {
		handlers[cmd.Name] = handleNotConfigured
	}
	return handlers
}

func handleNotConfigured(_ *discordgo.Session, _ *bot.Invocation, r bot.Responder) error {
	return r.Reply(&bot.Reply{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Unavailable",
				Description: notConfiguredMessage,
				Color:       0xFFFF00,
			},
		},
		Ephemeral: true,
	})
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	if m.lavalinkAdapter == nil {
		return nil
	}

	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.lavalinkAdapter.OnVoiceServerUpdate(event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.lavalinkAdapter.OnVoiceStateUpdate(event)
			m.eventHandlers.HandleVoiceStateUpdate(s, event)
		},
		m.eventHandlers.HandleGuildDelete,
		m.autocomplete.HandleAutocomplete,
		m.components.HandleComponent,
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil || !m.config.Enabled() {
		slog.Warn("music_player module loaded without Lavalink configuration, music disabled")
		return nil
	}
	if deps.Session == nil {
		slog.Warn("music_player module initialized without session, music disabled")
		return nil
	}

	return m.initWithLavalink(deps)
}

func (m *MusicPlayerModule) initWithLavalink(deps bot.ModuleDependencies) error {
	// The adapter publishes track ends, so the bus comes first
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		deps.Session,
		m.eventBus,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		},
	)
	if err != nil {
		m.eventBus.Close()
		m.eventBus = nil
		return fmt.Errorf("failed to connect to Lavalink: %w", err)
	}
	m.lavalinkAdapter = lavalinkAdapter

	// Create infrastructure
	repo := infrastructure.NewMemoryRepository()
	locks := usecases.NewGuildLocks()
	directory := infrastructure.NewGuildDirectory(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session, httpclient.New(
		httpclient.WithUserAgent("tavernbot"),
		httpclient.WithRateLimit(rate.Limit(5), 4),
	))
	m.controls = controls.NewRegistry(m.config.ControlsTimeout, notifier.DisableControls)
	notifier.SetControls(m.controls)
	lyricsClient := infrastructure.NewLyricsOVHClient(
		httpclient.New(httpclient.WithUserAgent("tavernbot")),
		infrastructure.DefaultLyricsBaseURL,
	)

	// Create services
	trackLoader := usecases.NewTrackLoaderService(lavalinkAdapter)
	m.playback = usecases.NewPlaybackService(
		repo,
		locks,
		lavalinkAdapter,
		lavalinkAdapter,
		directory,
		m.eventBus,
	)
	queue := usecases.NewQueueService(repo, locks)
	lyrics := usecases.NewLyricsService(repo, locks, lyricsClient)

	application.SubscribeTrackEnds(m.eventBus, m.playback)
	application.NewAnnouncer(notifier, m.playback, application.AnnouncerOptions{
		Users:       directory,
		QueueLength: func(guildID snowflake.ID) int { return len(queue.Entries(guildID)) },
	}).Subscribe(m.eventBus)

	// Create presentation handlers
	m.handlers = presentation.NewHandlers(m.playback, queue, trackLoader, lyrics)
	m.autocomplete = presentation.NewAutocompleteHandler(queue, trackLoader)
	m.components = presentation.NewComponentHandler(m.handlers, m.controls)
	m.eventHandlers = presentation.NewEventHandlers(lavalinkAdapter.BotID(), m.playback)

	slog.Info("music_player module initialized with Lavalink",
		"address", m.config.LavalinkAddress,
		"controls_timeout", m.config.ControlsTimeout,
	)

	return nil
}

// Shutdown leaves every voice channel and releases the Lavalink connection.
func (m *MusicPlayerModule) Shutdown() error {
	if m.playback != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		m.playback.Shutdown(ctx)
	}
	if m.controls != nil {
		m.controls.Close()
	}
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	return nil
}
