package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultEventBufferSize is the per-event-type queue length used when
// NewChannelEventBus is given a non-positive size.
const DefaultEventBufferSize = 100

var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// topic queues one event type. A single goroutine drains the queue and hands
// each event to its guild's worker, so a guild's subscribers see its events in
// publish order and never concurrently, while a slow guild cannot hold up
// another.
type topic[E any] struct {
	name    string
	queue   chan E
	guildOf func(E) snowflake.ID
	workers *guildWorkers[E]

	mu     sync.RWMutex
	subs   []func(context.Context, E)
	closed bool
}

func newTopic[E any](name string, size int, guildOf func(E) snowflake.ID) *topic[E] {
	return &topic[E]{
		name:    name,
		queue:   make(chan E, size),
		guildOf: guildOf,
		workers: newGuildWorkers[E](),
	}
}

func (t *topic[E]) subscribe(fn func(context.Context, E)) {
	t.mu.Lock()
	t.subs = append(t.subs, fn)
	t.mu.Unlock()
}

// send enqueues without blocking. A full queue or a closed topic drops the
// event.
func (t *topic[E]) send(event E) {
	guildID := t.guildOf(event)
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		slog.Warn("dropping event published after close", "type", t.name, "guild", guildID)
		return
	}
	select {
	case t.queue <- event:
		slog.Debug("queued event", "type", t.name, "guild", guildID)
	default:
		slog.Warn("event queue full, dropping event", "type", t.name, "guild", guildID)
	}
}

func (t *topic[E]) drain(ctx context.Context) error {
	defer t.workers.wait()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-t.queue:
			if !ok {
				return nil
			}
			t.workers.dispatch(ctx, t.guildOf(event), event, t.deliver)
		}
	}
}

func (t *topic[E]) deliver(ctx context.Context, event E) {
	t.mu.RLock()
	subs := t.subs
	t.mu.RUnlock()
	for _, fn := range subs {
		fn(ctx, event)
	}
}

func (t *topic[E]) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
}

// guildWorkers runs at most one delivery goroutine per guild. A worker exits
// once its guild's backlog is empty.
type guildWorkers[E any] struct {
	mu      sync.Mutex
	pending map[snowflake.ID][]E
	wg      sync.WaitGroup
}

func newGuildWorkers[E any]() *guildWorkers[E] {
	return &guildWorkers[E]{pending: make(map[snowflake.ID][]E)}
}

func (w *guildWorkers[E]) dispatch(
	ctx context.Context,
	guildID snowflake.ID,
	event E,
	deliver func(context.Context, E),
) {
	w.mu.Lock()
	backlog, running := w.pending[guildID]
	w.pending[guildID] = append(backlog, event)
	w.mu.Unlock()
	if running {
		return
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			event, ok := w.next(ctx, guildID)
			if !ok {
				return
			}
			deliver(ctx, event)
		}
	}()
}

// next pops the guild's oldest event. It retires the worker when the backlog
// is empty or the bus is closing.
func (w *guildWorkers[E]) next(ctx context.Context, guildID snowflake.ID) (E, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var zero E
	backlog := w.pending[guildID]
	if len(backlog) == 0 || ctx.Err() != nil {
		delete(w.pending, guildID)
		return zero, false
	}
	w.pending[guildID] = backlog[1:]
	return backlog[0], true
}

func (w *guildWorkers[E]) wait() {
	w.wg.Wait()
}

// ChannelEventBus delivers player events asynchronously over buffered
// channels, one queue per event type and one worker per busy guild.
type ChannelEventBus struct {
	trackEnded       *topic[domain.TrackEndedEvent]
	playbackStarted  *topic[domain.PlaybackStartedEvent]
	playbackFinished *topic[domain.PlaybackFinishedEvent]
	playbackFailed   *topic[domain.PlaybackFailedEvent]

	cancel    context.CancelFunc
	drainers  errgroup.Group
	closeOnce sync.Once
}

// NewChannelEventBus creates a bus and starts draining its queues.
func NewChannelEventBus(size int) *ChannelEventBus {
	if size <= 0 {
		size = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &ChannelEventBus{
		trackEnded: newTopic("TrackEnded", size,
			func(e domain.TrackEndedEvent) snowflake.ID { return e.GuildID }),
		playbackStarted: newTopic("PlaybackStarted", size,
			func(e domain.PlaybackStartedEvent) snowflake.ID { return e.GuildID }),
		playbackFinished: newTopic("PlaybackFinished", size,
			func(e domain.PlaybackFinishedEvent) snowflake.ID { return e.GuildID }),
		playbackFailed: newTopic("PlaybackFailed", size,
			func(e domain.PlaybackFailedEvent) snowflake.ID { return e.GuildID }),
		cancel: cancel,
	}

	b.drainers.Go(func() error { return b.trackEnded.drain(ctx) })
	b.drainers.Go(func() error { return b.playbackStarted.drain(ctx) })
	b.drainers.Go(func() error { return b.playbackFinished.drain(ctx) })
	b.drainers.Go(func() error { return b.playbackFailed.drain(ctx) })

	return b
}

func (b *ChannelEventBus) PublishTrackEnded(e domain.TrackEndedEvent) {
	b.trackEnded.send(e)
}

func (b *ChannelEventBus) PublishPlaybackStarted(e domain.PlaybackStartedEvent) {
	b.playbackStarted.send(e)
}

func (b *ChannelEventBus) PublishPlaybackFinished(e domain.PlaybackFinishedEvent) {
	b.playbackFinished.send(e)
}

func (b *ChannelEventBus) PublishPlaybackFailed(e domain.PlaybackFailedEvent) {
	b.playbackFailed.send(e)
}

func (b *ChannelEventBus) OnTrackEnded(fn func(context.Context, domain.TrackEndedEvent)) {
	b.trackEnded.subscribe(fn)
}

func (b *ChannelEventBus) OnPlaybackStarted(fn func(context.Context, domain.PlaybackStartedEvent)) {
	b.playbackStarted.subscribe(fn)
}

func (b *ChannelEventBus) OnPlaybackFinished(fn func(context.Context, domain.PlaybackFinishedEvent)) {
	b.playbackFinished.subscribe(fn)
}

func (b *ChannelEventBus) OnPlaybackFailed(fn func(context.Context, domain.PlaybackFailedEvent)) {
	b.playbackFailed.subscribe(fn)
}

// Close stops delivery and waits for in-flight handlers. Queued events are
// discarded. It is safe to call more than once.
func (b *ChannelEventBus) Close() {
	b.closeOnce.Do(func() {
		b.cancel()
		b.trackEnded.close()
		b.playbackStarted.close()
		b.playbackFinished.close()
		b.playbackFailed.close()
		_ = b.drainers.Wait()
		slog.Debug("event bus closed")
	})
}
