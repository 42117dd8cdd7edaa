package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

func newQueueFixture() (*mockRepository, *QueueService) {
	repo := newMockRepository()
	return repo, NewQueueService(repo, NewGuildLocks())
}

func waiting(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("T%02d", i+1)
	}
	return ids
}

func TestQueueService_List(t *testing.T) {
	tests := []struct {
		name        string
		waiting     int
		page        int
		pageSize    int
		wantPage    int
		wantPages   int
		wantStart   int
		wantEntries []string
	}{
		{
			name:        "first page",
			waiting:     3,
			page:        1,
			wantPage:    1,
			wantPages:   1,
			wantStart:   1,
			wantEntries: []string{"T01", "T02", "T03"},
		},
		{
			name:        "second page",
			waiting:     5,
			page:        2,
			pageSize:    2,
			wantPage:    2,
			wantPages:   3,
			wantStart:   3,
			wantEntries: []string{"T03", "T04"},
		},
		{
			name:        "last partial page",
			waiting:     5,
			page:        3,
			pageSize:    2,
			wantPage:    3,
			wantPages:   3,
			wantStart:   5,
			wantEntries: []string{"T05"},
		},
		{
			name:        "page past end is clamped",
			waiting:     12,
			page:        9,
			wantPage:    2,
			wantPages:   2,
			wantStart:   11,
			wantEntries: []string{"T11", "T12"},
		},
		{
			name:        "page zero is clamped",
			waiting:     2,
			page:        0,
			wantPage:    1,
			wantPages:   1,
			wantStart:   1,
			wantEntries: []string{"T01", "T02"},
		},
		{
			name:        "nothing waiting",
			waiting:     0,
			page:        1,
			wantPage:    1,
			wantPages:   1,
			wantStart:   1,
			wantEntries: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, service := newQueueFixture()
			repo.createPlayingState("NOW", waiting(tt.waiting)...)

			out := service.List(context.Background(), QueueListInput{
				GuildID:  testGuildID,
				Page:     tt.page,
				PageSize: tt.pageSize,
			})

			if out.Current == nil || out.Current.Track.Identifier != "NOW" {
				t.Errorf("expected current NOW, got %+v", out.Current)
			}
			if out.Status != domain.StatusPlaying {
				t.Errorf("expected playing, got %s", out.Status)
			}
			if out.TotalEntries != tt.waiting {
				t.Errorf("expected %d entries, got %d", tt.waiting, out.TotalEntries)
			}
			if out.CurrentPage != tt.wantPage || out.TotalPages != tt.wantPages {
				t.Errorf("expected page %d/%d, got %d/%d",
					tt.wantPage, tt.wantPages, out.CurrentPage, out.TotalPages)
			}
			if out.Start != tt.wantStart {
				t.Errorf("expected start %d, got %d", tt.wantStart, out.Start)
			}

			got := make([]string, len(out.Entries))
			for i, e := range out.Entries {
				got[i] = e.Track.Identifier
			}
			if !slices.Equal(got, tt.wantEntries) {
				t.Errorf("expected entries %v, got %v", tt.wantEntries, got)
			}
		})
	}
}

func TestQueueService_List_NoState(t *testing.T) {
	_, service := newQueueFixture()

	out := service.List(context.Background(), QueueListInput{GuildID: testGuildID, Page: 3})

	if out == nil {
		t.Fatal("expected output, got nil")
	}
	if !out.IsEmpty() {
		t.Error("expected empty output")
	}
	if out.Status != domain.StatusIdle {
		t.Errorf("expected idle, got %s", out.Status)
	}
	if out.CurrentPage != 1 || out.TotalPages != 1 {
		t.Errorf("expected page 1/1, got %d/%d", out.CurrentPage, out.TotalPages)
	}
}

func TestQueueService_Remove(t *testing.T) {
	tests := []struct {
		name        string
		waiting     []string
		position    int
		wantRemoved string
		wantQueue   []string
		wantErr     error
	}{
		{
			name:        "remove first waiting",
			waiting:     []string{"B", "C", "D"},
			position:    1,
			wantRemoved: "B",
			wantQueue:   []string{"C", "D"},
		},
		{
			name:        "remove last waiting",
			waiting:     []string{"B", "C", "D"},
			position:    3,
			wantRemoved: "D",
			wantQueue:   []string{"B", "C"},
		},
		{
			name:      "position zero",
			waiting:   []string{"B", "C"},
			position:  0,
			wantQueue: []string{"B", "C"},
			wantErr:   ErrInvalidPosition,
		},
		{
			name:      "position past end",
			waiting:   []string{"B", "C"},
			position:  3,
			wantQueue: []string{"B", "C"},
			wantErr:   ErrInvalidPosition,
		},
		{
			name:      "negative position",
			waiting:   []string{"B"},
			position:  -1,
			wantQueue: []string{"B"},
			wantErr:   ErrInvalidPosition,
		},
		{
			name:      "nothing waiting",
			position:  1,
			wantQueue: []string{},
			wantErr:   ErrQueueEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, service := newQueueFixture()
			state := repo.createPlayingState("A", tt.waiting...)

			out, err := service.Remove(context.Background(), QueueRemoveInput{
				GuildID:  testGuildID,
				Position: tt.position,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if out.Removed.Track.Identifier != tt.wantRemoved {
					t.Errorf("expected %s removed, got %s", tt.wantRemoved, out.Removed.Track.Identifier)
				}
			}

			if got := queuedIDs(state); !slices.Equal(got, tt.wantQueue) {
				t.Errorf("expected queue %v, got %v", tt.wantQueue, got)
			}
			if state.CurrentTrack().Identifier != "A" {
				t.Error("expected the current track to be untouched")
			}
		})
	}
}

func TestQueueService_Remove_PositionErrorReportsRange(t *testing.T) {
	repo, service := newQueueFixture()
	repo.createPlayingState("A", "B", "C")

	_, err := service.Remove(context.Background(), QueueRemoveInput{GuildID: testGuildID, Position: 7})

	var posErr *PositionError
	if !errors.As(err, &posErr) {
		t.Fatalf("expected PositionError, got %v", err)
	}
	if posErr.Position != 7 || posErr.Max != 2 {
		t.Errorf("expected position 7 with max 2, got %+v", posErr)
	}
}

func TestQueueService_Clear(t *testing.T) {
	repo, service := newQueueFixture()
	state := repo.createPlayingState("A", "B", "C")

	out, err := service.Clear(context.Background(), QueueClearInput{GuildID: testGuildID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ClearedCount != 2 {
		t.Errorf("expected 2 cleared, got %d", out.ClearedCount)
	}
	if !state.Queue.IsEmpty() {
		t.Errorf("expected empty queue, got %v", queuedIDs(state))
	}
	if state.Status() != domain.StatusPlaying {
		t.Errorf("expected current track to keep playing, got %s", state.Status())
	}
}

func TestQueueService_Clear_Empty(t *testing.T) {
	repo, service := newQueueFixture()

	if _, err := service.Clear(context.Background(), QueueClearInput{GuildID: testGuildID}); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty without state, got %v", err)
	}

	repo.createPlayingState("A")
	if _, err := service.Clear(context.Background(), QueueClearInput{GuildID: testGuildID}); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty with nothing waiting, got %v", err)
	}
}

func TestQueueService_Entries(t *testing.T) {
	repo, service := newQueueFixture()

	if got := service.Entries(testGuildID); got != nil {
		t.Errorf("expected nil without state, got %v", got)
	}

	repo.createPlayingState("A", "B", "C")
	entries := service.Entries(testGuildID)
	if len(entries) != 2 || entries[0].Track.Identifier != "B" {
		t.Errorf("expected waiting entries [B C], got %d entries", len(entries))
	}
}
