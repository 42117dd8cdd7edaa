package controls

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// DefaultTimeout is how long controls stay usable without a click.
const DefaultTimeout = 3 * time.Minute

// EditFunc replaces the controls on a message with disabled ones.
type EditFunc func(channelID, messageID, guildID snowflake.ID) error

type control struct {
	channelID snowflake.ID
	guildID   snowflake.ID
	deadline  time.Time
	timer     *time.Timer
}

// Registry tracks messages carrying live controls. A message's controls
// expire once the timeout passes without a click; expiring disables them
// through the edit function and later clicks are refused.
type Registry struct {
	timeout time.Duration
	edit    EditFunc

	mu       sync.Mutex
	controls map[snowflake.ID]*control // keyed by message ID
	closed   bool
}

// NewRegistry creates a Registry. A non-positive timeout uses DefaultTimeout.
func NewRegistry(timeout time.Duration, edit EditFunc) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		timeout:  timeout,
		edit:     edit,
		controls: make(map[snowflake.ID]*control),
	}
}

// Components returns the live button row for a guild.
func (r *Registry) Components(guildID snowflake.ID) []discordgo.MessageComponent {
	return Components(guildID, false)
}

// Track starts the expiry timer for a message carrying controls.
func (r *Registry) Track(channelID, messageID, guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if existing, ok := r.controls[messageID]; ok {
		existing.timer.Stop()
	}

	r.controls[messageID] = &control{
		channelID: channelID,
		guildID:   guildID,
		deadline:  time.Now().Add(r.timeout),
		timer:     time.AfterFunc(r.timeout, func() { r.expire(messageID) }),
	}
}

// Touch restarts the expiry timer of a message. It returns false if the
// message has no live controls.
func (r *Registry) Touch(messageID snowflake.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controls[messageID]
	if !ok {
		return false
	}
	c.deadline = time.Now().Add(r.timeout)
	c.timer.Reset(r.timeout)
	return true
}

// Forget drops a message without editing it, e.g. because it was deleted.
func (r *Registry) Forget(messageID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controls[messageID]; ok {
		c.timer.Stop()
		delete(r.controls, messageID)
	}
}

// Len returns the number of messages with live controls.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controls)
}

// Close stops every timer. Messages are left as they are.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, c := range r.controls {
		c.timer.Stop()
		delete(r.controls, id)
	}
}

func (r *Registry) expire(messageID snowflake.ID) {
	r.mu.Lock()
	c, ok := r.controls[messageID]
	if ok && time.Now().Before(c.deadline) {
		// Touched after the timer fired; the reset timer fires again later.
		ok = false
	}
	if ok {
		delete(r.controls, messageID)
	}
	r.mu.Unlock()

	if !ok || r.edit == nil {
		return
	}

	if err := r.edit(c.channelID, messageID, c.guildID); err != nil {
		slog.Warn("failed to disable expired controls",
			"guild", c.guildID,
			"channel", c.channelID,
			"message_id", messageID,
			"error", err,
		)
	}
}
