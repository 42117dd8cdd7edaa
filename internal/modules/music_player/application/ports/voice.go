package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/domain"
)

// AudioPlayer drives the audio node for a guild. A track that ends because
// Play replaced it or Stop cut it short is reported with a reason that does
// not advance the queue.
type AudioPlayer interface {
	Play(ctx context.Context, guildID snowflake.ID, track *domain.Track) error
	Stop(ctx context.Context, guildID snowflake.ID) error
	Pause(ctx context.Context, guildID snowflake.ID) error
	Resume(ctx context.Context, guildID snowflake.ID) error
}

// VoiceConnection moves the bot in and out of voice channels.
type VoiceConnection interface {
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}

// VoiceStateProvider reads where members currently are.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the user's voice channel, or 0 when they are
	// not connected to one.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
