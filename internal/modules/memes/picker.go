package memes

import (
	"errors"
	"math/rand/v2"

	"github.com/sglre6355/tavernbot/internal/cache"
)

// ErrNoNewPosts is returned when every candidate has been shown already.
var ErrNoNewPosts = errors.New("no unseen posts")

// Picker chooses random posts, never repeating one while it is remembered.
// Memory is bounded; the oldest shown posts are forgotten first.
type Picker struct {
	seen    *cache.Set[string]
	shuffle func(n int) []int
}

// NewPicker creates a Picker that remembers up to capacity posts.
func NewPicker(capacity int) *Picker {
	return &Picker{
		seen:    cache.NewSet[string](capacity),
		shuffle: rand.Perm,
	}
}

// Pick returns a random post that has not been shown and marks it shown.
func (p *Picker) Pick(posts []Post) (*Post, error) {
	for _, idx := range p.shuffle(len(posts)) {
		post := &posts[idx]
		// Add fails when another caller already claimed the post.
		if p.seen.Add(post.ID) {
			return post, nil
		}
	}
	return nil, ErrNoNewPosts
}

// Seen reports how many posts are remembered.
func (p *Picker) Seen() int {
	return p.seen.Len()
}
