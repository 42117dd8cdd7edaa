package infrastructure

import (
	"slices"
	"sync"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	repo := NewMemoryRepository()

	if repo.Get(7) != nil {
		t.Fatal("expected no state before creation")
	}

	state := repo.GetOrCreate(7, 70)
	if state.GuildID() != 7 || state.NotificationChannelID() != 70 {
		t.Fatalf("unexpected state for guild %d, channel %d", state.GuildID(), state.NotificationChannelID())
	}
	if repo.Get(7) != state {
		t.Error("Get should return the created state")
	}
	if repo.Get(8) != nil {
		t.Error("other guilds should stay empty")
	}

	if again := repo.GetOrCreate(7, 99); again != state || again.NotificationChannelID() != 70 {
		t.Error("GetOrCreate should return the existing state with its original channel")
	}

	repo.Delete(7)
	repo.Delete(7)
	if repo.Get(7) != nil {
		t.Error("expected state to be gone after delete")
	}
}

func TestMemoryRepository_ListIsSorted(t *testing.T) {
	repo := NewMemoryRepository()
	if ids := repo.List(); len(ids) != 0 {
		t.Fatalf("expected empty list, got %v", ids)
	}

	for _, id := range []snowflake.ID{30, 10, 20, 40} {
		repo.GetOrCreate(id, 0)
	}
	repo.Delete(20)

	if got, want := repo.List(), []snowflake.ID{10, 30, 40}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if repo.Len() != 3 {
		t.Errorf("expected 3 states, got %d", repo.Len())
	}
}

func TestMemoryRepository_ConcurrentCreateYieldsOneState(t *testing.T) {
	repo := NewMemoryRepository()
	const guild = snowflake.ID(5)

	results := make([]any, 50)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.GetOrCreate(guild, snowflake.ID(i))
		}()
	}
	wg.Wait()

	for _, r := range results {
		if r != results[0] {
			t.Fatal("concurrent creators received different states")
		}
	}
	if repo.Len() != 1 {
		t.Errorf("expected a single state, got %d", repo.Len())
	}
}
