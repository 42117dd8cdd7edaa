package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1)
	testTextChannelID  = snowflake.ID(3)
	testVoiceChannelID = snowflake.ID(4)
	testUserID         = snowflake.ID(123)
)

func mockTrack(id string) *domain.Track {
	return &domain.Track{
		Identifier: id,
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Artist:     "Artist",
		Duration:   3 * time.Minute,
		URI:        "https://example.com/" + id,
		SourceName: "youtube",
	}
}

type mockRepository struct {
	mu      sync.Mutex
	states  map[snowflake.ID]*domain.PlayerState
	deleted []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.states[guildID]
}

func (m *mockRepository) GetOrCreate(guildID, notificationChannelID snowflake.ID) *domain.PlayerState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[guildID]
	if !ok {
		state = domain.NewPlayerState(guildID, notificationChannelID)
		m.states[guildID] = state
	}
	return state
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

func (m *mockRepository) List() []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]snowflake.ID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	return ids
}

// createPlayingState saves a state that is playing the given track with the
// rest of the tracks waiting in the queue.
func (m *mockRepository) createPlayingState(current string, waiting ...string) *domain.PlayerState {
	state := m.GetOrCreate(testGuildID, testTextChannelID)
	state.Queue.Push(domain.NewQueueEntry(mockTrack(current), testVoiceChannelID, testUserID))
	state.BeginAdvance()
	state.SetConnected(testVoiceChannelID)
	if err := state.StartPlaying(); err != nil {
		panic(err)
	}
	for _, id := range waiting {
		state.Queue.Push(domain.NewQueueEntry(mockTrack(id), testVoiceChannelID, testUserID))
	}
	return state
}

type mockAudioPlayer struct {
	mu      sync.Mutex
	played  []string // Encoded tracks passed to Play
	stops   int
	pauses  int
	resumes int

	playErr   error
	failing   map[string]error // Encoded track -> Play error
	stopErr   error
	pauseErr  error
	resumeErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track) error {
	if m.playErr != nil {
		return m.playErr
	}
	if err := m.failing[track.Encoded]; err != nil {
		return err
	}
	m.played = append(m.played, track.Encoded)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stops++
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.pauses++
	return nil
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	if m.resumeErr != nil {
		return m.resumeErr
	}
	m.resumes++
	return nil
}

type mockVoiceConnection struct {
	mu     sync.Mutex
	joined []snowflake.ID
	leaves int

	joinErr  error
	leaveErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaves++
	return m.leaveErr
}

type mockTrackResolver struct {
	loadErr    error
	loadResult *ports.LoadResult
	queries    []string
}

func (m *mockTrackResolver) LoadTracks(_ context.Context, query string) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.loadResult, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) UserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

type mockEventPublisher struct {
	trackEnded       []domain.TrackEndedEvent
	playbackStarted  []domain.PlaybackStartedEvent
	playbackFinished []domain.PlaybackFinishedEvent
	playbackFailed   []domain.PlaybackFailedEvent
}

func (m *mockEventPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.trackEnded = append(m.trackEnded, event)
}

func (m *mockEventPublisher) PublishPlaybackStarted(event domain.PlaybackStartedEvent) {
	m.playbackStarted = append(m.playbackStarted, event)
}

func (m *mockEventPublisher) PublishPlaybackFinished(event domain.PlaybackFinishedEvent) {
	m.playbackFinished = append(m.playbackFinished, event)
}

func (m *mockEventPublisher) PublishPlaybackFailed(event domain.PlaybackFailedEvent) {
	m.playbackFailed = append(m.playbackFailed, event)
}

type mockLyricsProvider struct {
	lyrics string
	err    error
	asked  []string
}

func (m *mockLyricsProvider) Lyrics(_ context.Context, artist, title string) (string, error) {
	m.asked = append(m.asked, artist+" - "+title)
	return m.lyrics, m.err
}

// playbackFixture wires a PlaybackService to mocks.
type playbackFixture struct {
	repo       *mockRepository
	player     *mockAudioPlayer
	voice      *mockVoiceConnection
	voiceState *mockVoiceStateProvider
	publisher  *mockEventPublisher
	service    *PlaybackService
}

func newPlaybackFixture() *playbackFixture {
	f := &playbackFixture{
		repo:       newMockRepository(),
		player:     &mockAudioPlayer{},
		voice:      &mockVoiceConnection{},
		voiceState: &mockVoiceStateProvider{channels: map[snowflake.ID]snowflake.ID{}},
		publisher:  &mockEventPublisher{},
	}
	f.service = NewPlaybackService(
		f.repo,
		NewGuildLocks(),
		f.player,
		f.voice,
		f.voiceState,
		f.publisher,
	)
	return f
}

func (f *playbackFixture) enqueue(id string) (*EnqueueOutput, error) {
	return f.service.Enqueue(context.Background(), EnqueueInput{
		GuildID:               testGuildID,
		VoiceChannelID:        testVoiceChannelID,
		NotificationChannelID: testTextChannelID,
		RequesterID:           testUserID,
		Track:                 mockTrack(id),
	})
}

func (f *playbackFixture) state() *domain.PlayerState {
	return f.repo.Get(testGuildID)
}

func queuedIDs(state *domain.PlayerState) []string {
	if state == nil {
		return nil
	}
	entries := state.Queue.List()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Track.Identifier
	}
	return ids
}
