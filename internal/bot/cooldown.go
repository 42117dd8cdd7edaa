package bot

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/cache"
	"golang.org/x/time/rate"
)

// cooldownUsers bounds how many users have a limiter in memory.
const cooldownUsers = 4096

// Cooldown limits how often each user may run a command.
type Cooldown struct {
	every time.Duration
	burst int
	now   func() time.Time

	mu       sync.Mutex
	limiters *cache.FIFO[snowflake.ID, *rate.Limiter]
}

// NewCooldown allows each user burst calls, refilled one per every.
// A non-positive every disables the cooldown.
func NewCooldown(every time.Duration, burst int) *Cooldown {
	if burst < 1 {
		burst = 1
	}
	return &Cooldown{
		every:    every,
		burst:    burst,
		now:      time.Now,
		limiters: cache.NewFIFO[snowflake.ID, *rate.Limiter](cooldownUsers),
	}
}

// Allow reports whether the user may run a command now, and otherwise how
// long they have to wait.
func (c *Cooldown) Allow(userID snowflake.ID) (bool, time.Duration) {
	if c.every <= 0 {
		return true, 0
	}

	now := c.now()
	r := c.limiter(userID).ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (c *Cooldown) limiter(userID snowflake.ID) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.limiters.Get(userID); ok {
		return l
	}
	l := rate.NewLimiter(rate.Every(c.every), c.burst)
	c.limiters.Put(userID, l)
	return l
}

// Wrap guards a handler with the cooldown.
func (c *Cooldown) Wrap(handler CommandHandler) CommandHandler {
	return func(s *discordgo.Session, inv *Invocation, r Responder) error {
		if ok, wait := c.Allow(inv.UserID); !ok {
			return r.Reply(&Reply{
				Content:   fmt.Sprintf("Slow down! Try again in %ds.", int(math.Ceil(wait.Seconds()))),
				Ephemeral: true,
			})
		}
		return handler(s, inv, r)
	}
}

// cooldownBurst lets a user fire a couple of calls before the cooldown applies.
const cooldownBurst = 2

// CooldownFor builds the per-user cooldown configured for API-backed commands.
func CooldownFor(cfg *Config) *Cooldown {
	if cfg == nil {
		return NewCooldown(0, cooldownBurst)
	}
	return NewCooldown(cfg.CommandCooldown, cooldownBurst)
}
