package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

var (
	// ErrWaitTimeout is returned when the user sends nothing in time.
	ErrWaitTimeout = errors.New("timed out waiting for message")

	// ErrAlreadyWaiting is returned when a reply is already awaited from the
	// same user in the same channel.
	ErrAlreadyWaiting = errors.New("already waiting for a message from this user")
)

type waitKey struct {
	channelID snowflake.ID
	userID    snowflake.ID
}

type waiter struct {
	since time.Time
	ch    chan string
}

// MessageWaiter hands the next message a user sends in a channel to whoever
// is waiting for it.
type MessageWaiter struct {
	mu      sync.Mutex
	waiting map[waitKey]*waiter
	now     func() time.Time
}

// NewMessageWaiter creates a new MessageWaiter.
func NewMessageWaiter() *MessageWaiter {
	return &MessageWaiter{
		waiting: make(map[waitKey]*waiter),
		now:     time.Now,
	}
}

// Wait blocks until the user posts a message in the channel, the timeout
// passes, or ctx is done.
func (w *MessageWaiter) Wait(
	ctx context.Context,
	channelID, userID snowflake.ID,
	timeout time.Duration,
) (string, error) {
	key := waitKey{channelID: channelID, userID: userID}
	pending := &waiter{since: w.now(), ch: make(chan string, 1)}

	w.mu.Lock()
	if _, ok := w.waiting[key]; ok {
		w.mu.Unlock()
		return "", ErrAlreadyWaiting
	}
	w.waiting[key] = pending
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if w.waiting[key] == pending {
			delete(w.waiting, key)
		}
		w.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case content := <-pending.ch:
		return content, nil
	case <-timer.C:
		return "", ErrWaitTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Deliver passes a message to a matching waiter. Messages older than the
// wait, such as the command that started it, are ignored.
func (w *MessageWaiter) Deliver(channelID, userID snowflake.ID, sentAt time.Time, content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}

	key := waitKey{channelID: channelID, userID: userID}

	w.mu.Lock()
	pending, ok := w.waiting[key]
	if ok {
		if sentAt.Before(pending.since) {
			w.mu.Unlock()
			return false
		}
		delete(w.waiting, key)
	}
	w.mu.Unlock()

	if !ok {
		return false
	}
	pending.ch <- content
	return true
}

// HandleMessageCreate feeds gateway messages to waiters.
func (w *MessageWaiter) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return
	}
	userID, err := snowflake.Parse(m.Author.ID)
	if err != nil {
		return
	}

	w.Deliver(channelID, userID, m.Timestamp, m.Content)
}
