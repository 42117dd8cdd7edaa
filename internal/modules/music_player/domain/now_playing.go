package domain

import "github.com/disgoorg/snowflake/v2"

// NowPlayingMessage identifies a posted "Now Playing" message.
// The channel is kept alongside the message because notifications may move
// to another channel while the message is still up.
type NowPlayingMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
	EntryID   EntryID // Entry the message announces
}

func NewNowPlayingMessage(channelID, messageID snowflake.ID, entryID EntryID) NowPlayingMessage {
	return NowPlayingMessage{
		ChannelID: channelID,
		MessageID: messageID,
		EntryID:   entryID,
	}
}
