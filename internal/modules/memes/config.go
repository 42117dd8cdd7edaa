package memes

import "fmt"

// Config holds the memes module configuration.
// Without Reddit credentials the module loads disabled.
type Config struct {
	RedditClientID     string `env:"REDDIT_CLIENT_ID"`
	RedditClientSecret string `env:"REDDIT_CLIENT_SECRET"`
	RedditUsername     string `env:"USER_AGENT"`
	SeenCacheSize      int    `env:"MEME_SEEN_CACHE_SIZE" envDefault:"1000"`
}

// Enabled reports whether Reddit credentials are present.
func (c *Config) Enabled() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

// UserAgent returns the User-Agent Reddit requires from API clients.
func (c *Config) UserAgent() string {
	if c.RedditUsername == "" {
		return "tavernbot/1.0"
	}
	return fmt.Sprintf("tavernbot/1.0 (by /u/%s)", c.RedditUsername)
}
