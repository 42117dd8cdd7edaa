package music_player

import "time"

// Config holds the music player module configuration.
// Without a Lavalink address and password the module loads disabled.
type Config struct {
	LavalinkAddress  string        `env:"LAVALINK_ADDRESS"`
	LavalinkPassword string        `env:"LAVALINK_PASSWORD"`
	LavalinkSecure   bool          `env:"LAVALINK_SECURE"        envDefault:"false"`
	ControlsTimeout  time.Duration `env:"MUSIC_CONTROLS_TIMEOUT" envDefault:"3m"`
}

// Enabled reports whether enough configuration is present to reach Lavalink.
func (c *Config) Enabled() bool {
	return c.LavalinkAddress != "" && c.LavalinkPassword != ""
}
