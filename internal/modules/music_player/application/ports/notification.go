package ports

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// NotificationSender posts playback messages to a guild's text channel.
type NotificationSender interface {
	// SendNowPlaying posts the Now Playing embed with its controls and
	// returns the message ID so it can be cleaned up later.
	SendNowPlaying(channelID snowflake.ID, info *NowPlayingInfo) (messageID snowflake.ID, err error)
	DeleteMessage(channelID, messageID snowflake.ID) error
	SendError(channelID snowflake.ID, message string) error
}

// NowPlayingInfo is what the Now Playing message shows.
type NowPlayingInfo struct {
	GuildID     snowflake.ID
	Identifier  string
	Title       string
	Artist      string
	Duration    string
	URI         string
	ArtworkURL  string
	SourceName  string
	IsStream    bool
	QueueLength int

	RequesterID        snowflake.ID
	RequesterName      string
	RequesterAvatarURL string
	EnqueuedAt         time.Time
}

// UserInfo is how a member is shown in a guild.
type UserInfo struct {
	DisplayName string
	AvatarURL   string
}

// UserInfoProvider looks up member display details.
type UserInfoProvider interface {
	UserInfo(guildID, userID snowflake.ID) (*UserInfo, error)
}
