package presentation

import (
	"context"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

const (
	testGuildID   snowflake.ID = 1
	testChannelID snowflake.ID = 2
	testUserID    snowflake.ID = 3
	testVoiceID   snowflake.ID = 4
)

func testInvocation(command string, options map[string]string) *bot.Invocation {
	if options == nil {
		options = map[string]string{}
	}
	return &bot.Invocation{
		Command:   command,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		UserID:    testUserID,
		Options:   options,
	}
}

func testTrack(title string) *usecases.Track {
	return &usecases.Track{
		Encoded:  "encoded-" + title,
		Title:    title,
		Artist:   "Artist",
		URI:      "https://example.com/" + title,
		Duration: 215_000_000_000,
	}
}

func testEntry(title string) *usecases.QueueEntry {
	return &usecases.QueueEntry{ID: domain.EntryID("entry-" + title), Track: testTrack(title)}
}

// replyText returns the description of the reply's first embed, or its content.
func replyText(t *testing.T, r *bot.MockResponder) string {
	t.Helper()
	reply := r.LastReply()
	if reply == nil {
		t.Fatal("expected a reply, got none")
	}
	if len(reply.Embeds) > 0 {
		return reply.Embeds[0].Description
	}
	return reply.Content
}

func isErrorReply(r *bot.MockResponder) bool {
	reply := r.LastReply()
	return reply != nil && len(reply.Embeds) > 0 && reply.Embeds[0].Color == colorError
}

type mockPlayback struct {
	voiceChannelID snowflake.ID
	voiceErr       error

	enqueueOutput *usecases.EnqueueOutput
	enqueueErr    error
	enqueued      []usecases.EnqueueInput

	pauseErr  error
	resumeErr error
	paused    int
	resumed   int

	skipOutput *usecases.SkipOutput
	skipErr    error

	stopOutput *usecases.StopOutput
	stopErr    error
	stopped    int
}

func (m *mockPlayback) RequireVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return m.voiceChannelID, m.voiceErr
}

func (m *mockPlayback) Enqueue(_ context.Context, input usecases.EnqueueInput) (*usecases.EnqueueOutput, error) {
	m.enqueued = append(m.enqueued, input)
	return m.enqueueOutput, m.enqueueErr
}

func (m *mockPlayback) Pause(context.Context, usecases.PauseInput) error {
	m.paused++
	return m.pauseErr
}

func (m *mockPlayback) Resume(context.Context, usecases.ResumeInput) error {
	m.resumed++
	return m.resumeErr
}

func (m *mockPlayback) Skip(context.Context, usecases.SkipInput) (*usecases.SkipOutput, error) {
	return m.skipOutput, m.skipErr
}

func (m *mockPlayback) Stop(context.Context, usecases.StopInput) (*usecases.StopOutput, error) {
	m.stopped++
	return m.stopOutput, m.stopErr
}

type mockQueue struct {
	listOutput   *usecases.QueueListOutput
	listInput    usecases.QueueListInput
	removeOutput *usecases.QueueRemoveOutput
	removeErr    error
	removed      []int
	clearOutput  *usecases.QueueClearOutput
	clearErr     error
	entries      []*usecases.QueueEntry
}

func (m *mockQueue) List(_ context.Context, input usecases.QueueListInput) *usecases.QueueListOutput {
	m.listInput = input
	return m.listOutput
}

func (m *mockQueue) Remove(_ context.Context, input usecases.QueueRemoveInput) (*usecases.QueueRemoveOutput, error) {
	m.removed = append(m.removed, input.Position)
	return m.removeOutput, m.removeErr
}

func (m *mockQueue) Clear(context.Context, usecases.QueueClearInput) (*usecases.QueueClearOutput, error) {
	return m.clearOutput, m.clearErr
}

func (m *mockQueue) Entries(snowflake.ID) []*usecases.QueueEntry {
	return m.entries
}

type mockTrackLoader struct {
	resolveOutput *usecases.ResolveOutput
	resolveErr    error
	resolved      []string

	searchOutput *usecases.SearchTracksOutput
	searchErr    error
	searched     []string
}

func (m *mockTrackLoader) Resolve(_ context.Context, input usecases.ResolveInput) (*usecases.ResolveOutput, error) {
	m.resolved = append(m.resolved, input.Query)
	return m.resolveOutput, m.resolveErr
}

func (m *mockTrackLoader) SearchTracks(
	_ context.Context,
	input usecases.SearchTracksInput,
) (*usecases.SearchTracksOutput, error) {
	m.searched = append(m.searched, input.Query)
	return m.searchOutput, m.searchErr
}

type mockLyrics struct {
	output *usecases.LyricsOutput
	err    error
}

func (m *mockLyrics) Lyrics(context.Context, usecases.LyricsInput) (*usecases.LyricsOutput, error) {
	return m.output, m.err
}

func trackInfo(title, uri string) *ports.TrackInfo {
	return &ports.TrackInfo{Title: title, Artist: "Artist", URI: uri}
}
