package presentation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/usecases"
)

func newTestHandlers() (*Handlers, *mockPlayback, *mockQueue, *mockTrackLoader, *mockLyrics) {
	playback := &mockPlayback{voiceChannelID: testVoiceID}
	queue := &mockQueue{}
	loader := &mockTrackLoader{}
	lyrics := &mockLyrics{}
	return NewHandlers(playback, queue, loader, lyrics), playback, queue, loader, lyrics
}

func TestHandlers_CommandHandlersCoverCommands(t *testing.T) {
	h, _, _, _, _ := newTestHandlers()
	handlers := h.CommandHandlers()

	for _, cmd := range Commands() {
		if _, ok := handlers[cmd.Name]; !ok {
			t.Errorf("expected a handler for %q", cmd.Name)
		}
	}
	if len(handlers) != len(Commands()) {
		t.Errorf("expected %d handlers, got %d", len(Commands()), len(handlers))
	}
}

func TestHandlePlay(t *testing.T) {
	entry := testEntry("Song")
	leftover := testEntry("Leftover")

	tests := []struct {
		name          string
		voiceErr      error
		resolveErr    error
		enqueueOutput *usecases.EnqueueOutput
		enqueueErr    error
		wantDeferred  bool
		wantErr       bool
		wantError     bool
		wantText      string
	}{
		{
			name:      "not in voice",
			voiceErr:  usecases.ErrUserNotInVoice,
			wantError: true,
			wantText:  "connect to a voice channel first",
		},
		{
			name:          "starts playing",
			enqueueOutput: &usecases.EnqueueOutput{Entry: entry, Started: entry},
			wantDeferred:  true,
			wantText:      "Now playing **[Song](https://example.com/Song)** (Duration: 03:35)",
		},
		{
			name:          "queued",
			enqueueOutput: &usecases.EnqueueOutput{Entry: entry, Position: 2},
			wantDeferred:  true,
			wantText:      "**#2 - [Song](https://example.com/Song)** (Duration: 03:35) added to the queue.",
		},
		{
			name:          "queued behind leftover",
			enqueueOutput: &usecases.EnqueueOutput{Entry: entry, Position: 1, Started: leftover},
			wantDeferred:  true,
			wantText:      "Now playing **[Leftover](https://example.com/Leftover)**",
		},
		{
			name:          "resumed",
			enqueueOutput: &usecases.EnqueueOutput{Entry: entry, Position: 1, Resumed: true},
			wantDeferred:  true,
			wantText:      "Resumed playback.",
		},
		{
			name:         "no results",
			resolveErr:   &usecases.ResolutionError{Query: "zzz", Kind: usecases.ErrNoResults},
			wantDeferred: true,
			wantError:    true,
			wantText:     "Nothing found for **zzz**",
		},
		{
			name: "load failed",
			resolveErr: &usecases.ResolutionError{
				Query:   "https://example.com/x",
				Kind:    usecases.ErrLoadFailed,
				Message: "This video is unavailable",
			},
			wantDeferred: true,
			wantError:    true,
			wantText:     "This video is unavailable",
		},
		{
			name:         "resolver unreachable",
			resolveErr:   fmt.Errorf("failed to load tracks: %w", errors.New("connection refused")),
			wantDeferred: true,
			wantError:    true,
			wantText:     "Please try again later.",
		},
		{
			name:         "connection failure is reported by the bot",
			enqueueErr:   errors.New("failed to join voice channel"),
			wantDeferred: true,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, playback, _, loader, _ := newTestHandlers()
			playback.voiceErr = tt.voiceErr
			playback.enqueueOutput = tt.enqueueOutput
			playback.enqueueErr = tt.enqueueErr
			loader.resolveErr = tt.resolveErr
			if tt.resolveErr == nil {
				loader.resolveOutput = &usecases.ResolveOutput{Track: entry.Track}
			}

			r := &bot.MockResponder{}
			err := h.HandlePlay(nil, testInvocation("play", map[string]string{"query": "song"}), r)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Deferred != tt.wantDeferred {
				t.Errorf("expected deferred %v, got %v", tt.wantDeferred, r.Deferred)
			}
			if isErrorReply(r) != tt.wantError {
				t.Errorf("expected error reply %v, got %+v", tt.wantError, r.LastReply())
			}
			if text := replyText(t, r); !strings.Contains(text, tt.wantText) {
				t.Errorf("expected %q in %q", tt.wantText, text)
			}
		})
	}
}

func TestHandlePlay_PassesInvocationContext(t *testing.T) {
	h, playback, _, loader, _ := newTestHandlers()
	entry := testEntry("Song")
	loader.resolveOutput = &usecases.ResolveOutput{Track: entry.Track}
	playback.enqueueOutput = &usecases.EnqueueOutput{Entry: entry, Started: entry}

	r := &bot.MockResponder{}
	if err := h.HandlePlay(nil, testInvocation("play", map[string]string{"query": "never gonna"}), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(loader.resolved) != 1 || loader.resolved[0] != "never gonna" {
		t.Errorf("expected query to be resolved, got %v", loader.resolved)
	}
	if len(playback.enqueued) != 1 {
		t.Fatalf("expected 1 enqueue, got %d", len(playback.enqueued))
	}
	input := playback.enqueued[0]
	if input.GuildID != testGuildID || input.VoiceChannelID != testVoiceID ||
		input.NotificationChannelID != testChannelID || input.RequesterID != testUserID {
		t.Errorf("unexpected enqueue input %+v", input)
	}
}

func TestHandlePlay_NotInVoiceSkipsResolution(t *testing.T) {
	h, playback, _, loader, _ := newTestHandlers()
	playback.voiceErr = usecases.ErrUserNotInVoice

	r := &bot.MockResponder{}
	if err := h.HandlePlay(nil, testInvocation("play", map[string]string{"query": "song"}), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Deferred || len(loader.resolved) != 0 || len(playback.enqueued) != 0 {
		t.Error("expected nothing to happen before the user joins a voice channel")
	}
}

func TestPlaybackControlCommands(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		setup     func(*mockPlayback)
		wantError bool
		wantText  string
	}{
		{name: "pause", command: "pause", wantText: "Paused the current song."},
		{
			name:      "pause while paused",
			command:   "pause",
			setup:     func(p *mockPlayback) { p.pauseErr = usecases.ErrAlreadyPaused },
			wantError: true,
			wantText:  "already paused",
		},
		{
			name:      "pause idle",
			command:   "pause",
			setup:     func(p *mockPlayback) { p.pauseErr = usecases.ErrNotPlaying },
			wantError: true,
			wantText:  "No song is currently playing.",
		},
		{name: "resume", command: "resume", wantText: "Resumed the current song."},
		{
			name:      "resume while playing",
			command:   "resume",
			setup:     func(p *mockPlayback) { p.resumeErr = usecases.ErrNotPaused },
			wantError: true,
			wantText:  "not paused",
		},
		{
			name:    "skip to next",
			command: "skip",
			setup: func(p *mockPlayback) {
				p.skipOutput = &usecases.SkipOutput{Skipped: testEntry("A"), Next: testEntry("B")}
			},
			wantText: "Now playing **[B](https://example.com/B)**",
		},
		{
			name:    "skip last",
			command: "skip",
			setup: func(p *mockPlayback) {
				p.skipOutput = &usecases.SkipOutput{Skipped: testEntry("A")}
			},
			wantText: "The queue is empty.",
		},
		{
			name:      "skip while paused",
			command:   "skip",
			setup:     func(p *mockPlayback) { p.skipErr = usecases.ErrSkipWhilePaused },
			wantError: true,
			wantText:  "Resume it before skipping",
		},
		{
			name:     "stop",
			command:  "stop",
			setup:    func(p *mockPlayback) { p.stopOutput = &usecases.StopOutput{WasActive: true} },
			wantText: "Stopped playing music and cleared the queue.",
		},
		{
			name:     "stop idle",
			command:  "stop",
			setup:    func(p *mockPlayback) { p.stopOutput = &usecases.StopOutput{} },
			wantText: "Nothing is playing.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, playback, _, _, _ := newTestHandlers()
			if tt.setup != nil {
				tt.setup(playback)
			}

			r := &bot.MockResponder{}
			handler := h.CommandHandlers()[tt.command]
			if err := handler(nil, testInvocation(tt.command, nil), r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if isErrorReply(r) != tt.wantError {
				t.Errorf("expected error reply %v, got %+v", tt.wantError, r.LastReply())
			}
			if text := replyText(t, r); !strings.Contains(text, tt.wantText) {
				t.Errorf("expected %q in %q", tt.wantText, text)
			}
		})
	}
}

func TestPlaybackControlCommands_UnexpectedErrorIsReturned(t *testing.T) {
	h, playback, _, _, _ := newTestHandlers()
	playback.pauseErr = errors.New("lavalink node unavailable")

	r := &bot.MockResponder{}
	if err := h.HandlePause(nil, testInvocation("pause", nil), r); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(r.Replies) != 0 {
		t.Errorf("expected the bot to reply, got %d handler replies", len(r.Replies))
	}
}

func TestHandleQueue(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h, _, queue, _, _ := newTestHandlers()
		queue.listOutput = &usecases.QueueListOutput{CurrentPage: 1, TotalPages: 1}

		r := &bot.MockResponder{}
		if err := h.HandleQueue(nil, testInvocation("queue", nil), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text := replyText(t, r); text != "No music in queue" {
			t.Errorf("expected explicit empty queue, got %q", text)
		}
		if queue.listInput.Page != 1 {
			t.Errorf("expected default page 1, got %d", queue.listInput.Page)
		}
	})

	t.Run("page", func(t *testing.T) {
		h, _, queue, _, _ := newTestHandlers()
		queue.listOutput = &usecases.QueueListOutput{
			Current:      testEntry("Now"),
			Status:       usecases.StatusPlaying,
			Entries:      []*usecases.QueueEntry{testEntry("K"), testEntry("L")},
			Start:        11,
			TotalEntries: 12,
			CurrentPage:  2,
			TotalPages:   2,
		}

		r := &bot.MockResponder{}
		if err := h.HandleQueue(nil, testInvocation("queue", map[string]string{"page": "2"}), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if queue.listInput.Page != 2 {
			t.Errorf("expected page 2, got %d", queue.listInput.Page)
		}
		text := replyText(t, r)
		for _, want := range []string{"### Now Playing", "[Now]", "11\\. [K]", "12\\. [L]"} {
			if !strings.Contains(text, want) {
				t.Errorf("expected %q in %q", want, text)
			}
		}
		footer := r.LastReply().Embeds[0].Footer.Text
		if !strings.HasPrefix(footer, "Page 2/2") || !strings.Contains(footer, "12 tracks waiting") {
			t.Errorf("unexpected footer %q", footer)
		}
	})

	t.Run("invalid page", func(t *testing.T) {
		h, _, _, _, _ := newTestHandlers()

		r := &bot.MockResponder{}
		if err := h.HandleQueue(nil, testInvocation("queue", map[string]string{"page": "two"}), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !isErrorReply(r) {
			t.Error("expected an error reply")
		}
	})
}

func TestHandleRemove(t *testing.T) {
	tests := []struct {
		name      string
		position  string
		output    *usecases.QueueRemoveOutput
		err       error
		wantError bool
		wantText  string
	}{
		{
			name:     "removes",
			position: "2",
			output:   &usecases.QueueRemoveOutput{Removed: testEntry("B")},
			wantText: "Removed **#2 - [B](https://example.com/B)** from the queue.",
		},
		{
			name:      "out of range",
			position:  "9",
			err:       &usecases.PositionError{Position: 9, Max: 3},
			wantError: true,
			wantText:  "between 1 and 3",
		},
		{
			name:      "single entry",
			position:  "2",
			err:       &usecases.PositionError{Position: 2, Max: 1},
			wantError: true,
			wantText:  "use position 1",
		},
		{
			name:      "empty queue",
			position:  "1",
			err:       usecases.ErrQueueEmpty,
			wantError: true,
			wantText:  "No music in queue.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, queue, _, _ := newTestHandlers()
			queue.removeOutput = tt.output
			queue.removeErr = tt.err

			r := &bot.MockResponder{}
			inv := testInvocation("remove", map[string]string{"position": tt.position})
			if err := h.HandleRemove(nil, inv, r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if isErrorReply(r) != tt.wantError {
				t.Errorf("expected error reply %v, got %+v", tt.wantError, r.LastReply())
			}
			if text := replyText(t, r); !strings.Contains(text, tt.wantText) {
				t.Errorf("expected %q in %q", tt.wantText, text)
			}
		})
	}
}

func TestHandleClear(t *testing.T) {
	h, _, queue, _, _ := newTestHandlers()
	queue.clearOutput = &usecases.QueueClearOutput{ClearedCount: 1}

	r := &bot.MockResponder{}
	if err := h.HandleClear(nil, testInvocation("clear", nil), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := replyText(t, r); text != "Music queue cleared (1 track removed)." {
		t.Errorf("unexpected reply %q", text)
	}

	queue.clearErr = usecases.ErrQueueEmpty
	r = &bot.MockResponder{}
	if err := h.HandleClear(nil, testInvocation("clear", nil), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isErrorReply(r) {
		t.Error("expected an error reply for an empty queue")
	}
}

func TestHandleLyrics(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		h, _, _, _, lyrics := newTestHandlers()
		lyrics.output = &usecases.LyricsOutput{Track: testTrack("Song"), Lyrics: "la la la"}

		r := &bot.MockResponder{}
		if err := h.HandleLyrics(nil, testInvocation("lyrics", nil), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !r.Deferred {
			t.Error("expected the lookup to be deferred")
		}
		if len(r.Replies) != 1 {
			t.Fatalf("expected 1 reply, got %d", len(r.Replies))
		}
		embed := r.LastReply().Embeds[0]
		if embed.Title != "Lyrics for 'Song'" || embed.Description != "la la la" {
			t.Errorf("unexpected embed %+v", embed)
		}
	})

	t.Run("long lyrics continue in follow-ups", func(t *testing.T) {
		h, _, _, _, lyrics := newTestHandlers()
		line := strings.Repeat("x", 99) + "\n"
		lyrics.output = &usecases.LyricsOutput{Track: testTrack("Song"), Lyrics: strings.Repeat(line, 100)}

		r := &bot.MockResponder{}
		if err := h.HandleLyrics(nil, testInvocation("lyrics", nil), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(r.Replies) != 3 {
			t.Fatalf("expected 3 replies, got %d", len(r.Replies))
		}
		for _, reply := range r.Replies {
			if n := len([]rune(reply.Embeds[0].Description)); n > maxEmbedDescription {
				t.Errorf("page of %d characters exceeds the embed limit", n)
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			err      error
			wantText string
		}{
			{err: usecases.ErrNotPlaying, wantText: "No song is currently playing."},
			{err: usecases.ErrLyricsNotFound, wantText: "Lyrics not found."},
			{err: errors.New("failed to fetch lyrics: timeout"), wantText: "Could not fetch lyrics. Please try again later."},
		}

		for _, tt := range tests {
			h, _, _, _, lyrics := newTestHandlers()
			lyrics.err = tt.err

			r := &bot.MockResponder{}
			if err := h.HandleLyrics(nil, testInvocation("lyrics", nil), r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !isErrorReply(r) || replyText(t, r) != tt.wantText {
				t.Errorf("expected error reply %q, got %+v", tt.wantText, r.LastReply())
			}
		}
	})
}
