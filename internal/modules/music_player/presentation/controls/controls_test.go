package controls

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID_RoundTrip(t *testing.T) {
	for _, action := range []Action{ActionPause, ActionResume, ActionSkip, ActionStop} {
		id := CustomID(action, snowflake.ID(42))
		assert.True(t, IsControl(id))

		gotAction, gotGuild, err := ParseCustomID(id)
		require.NoError(t, err)
		assert.Equal(t, action, gotAction)
		assert.Equal(t, snowflake.ID(42), gotGuild)
	}
}

func TestParseCustomID_Invalid(t *testing.T) {
	for _, id := range []string{
		"",
		"music_player",
		"music_player:pause",
		"music_player:rewind:42",
		"music_player:pause:abc",
		"tasks:pause:42",
		"music_player:pause:42:extra",
	} {
		t.Run(id, func(t *testing.T) {
			_, _, err := ParseCustomID(id)
			assert.ErrorIs(t, err, ErrUnknownControl)
		})
	}
}

func TestComponents(t *testing.T) {
	rows := Components(snowflake.ID(7), true)
	require.Len(t, rows, 1)

	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 4)

	for _, c := range row.Components {
		button, ok := c.(discordgo.Button)
		require.True(t, ok)
		assert.True(t, button.Disabled)

		_, guildID, err := ParseCustomID(button.CustomID)
		require.NoError(t, err)
		assert.Equal(t, snowflake.ID(7), guildID)
	}
}

type editRecorder struct {
	mu    sync.Mutex
	calls []snowflake.ID
}

func (e *editRecorder) edit(_, messageID, _ snowflake.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, messageID)
	return nil
}

func (e *editRecorder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func TestRegistry_ExpiresIdleControls(t *testing.T) {
	rec := &editRecorder{}
	r := NewRegistry(20*time.Millisecond, rec.edit)
	t.Cleanup(r.Close)

	r.Track(1, 100, 9)
	require.Equal(t, 1, r.Len())

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Touch(100), "expired controls must not accept clicks")
}

func TestRegistry_TouchKeepsControlsAlive(t *testing.T) {
	rec := &editRecorder{}
	r := NewRegistry(150*time.Millisecond, rec.edit)
	t.Cleanup(r.Close)

	r.Track(1, 100, 9)
	for range 4 {
		time.Sleep(40 * time.Millisecond)
		require.True(t, r.Touch(100))
	}
	assert.Equal(t, 0, rec.count())

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRegistry_ForgetDoesNotEdit(t *testing.T) {
	rec := &editRecorder{}
	r := NewRegistry(20*time.Millisecond, rec.edit)
	t.Cleanup(r.Close)

	r.Track(1, 100, 9)
	r.Forget(100)
	r.Forget(100)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
	assert.False(t, r.Touch(100))
}

func TestRegistry_CloseStopsTimers(t *testing.T) {
	rec := &editRecorder{}
	r := NewRegistry(20*time.Millisecond, rec.edit)

	r.Track(1, 100, 9)
	r.Track(1, 101, 9)
	r.Close()
	r.Track(1, 102, 9)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
	assert.Equal(t, 0, r.Len())
}

func TestNewRegistry_DefaultTimeout(t *testing.T) {
	r := NewRegistry(0, nil)
	assert.Equal(t, DefaultTimeout, r.timeout)
}
