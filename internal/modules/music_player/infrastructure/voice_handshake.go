package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// voiceCredentials is what Lavalink needs to open a guild's voice connection.
type voiceCredentials struct {
	channelID *snowflake.ID
	sessionID string
	token     string
	endpoint  string
}

// voiceHandshake pairs a guild's VoiceStateUpdate with its VoiceServerUpdate.
// Discord sends them in either order, and Lavalink rejects a partial state.
// Once both are known, a later update of either kind is forwarded on its own
// merged with the last value of the other. The server half outlives joins,
// since a move within the guild may bring only a new voice state.
type voiceHandshake struct {
	mu        sync.Mutex
	creds     voiceCredentials
	gotState  bool
	gotServer bool

	// want is the channel the pending join is waiting for, or 0 for any.
	want snowflake.ID
	// done is closed once both halves are known for want.
	done chan struct{}
}

func newVoiceHandshake() *voiceHandshake {
	return &voiceHandshake{done: make(chan struct{})}
}

// expect starts waiting for the bot to land in channelID. The returned
// channel is closed when Lavalink has complete credentials for it.
func (h *voiceHandshake) expect(channelID snowflake.ID) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.want = channelID
	h.gotState = false
	h.done = make(chan struct{})
	return h.done
}

// setState records the bot's channel and session. It returns the merged
// credentials when they are complete.
func (h *voiceHandshake) setState(channelID *snowflake.ID, sessionID string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.creds.channelID = channelID
	h.creds.sessionID = sessionID
	h.gotState = true
	return h.completeLocked()
}

// setServer records the voice server. It returns the merged credentials
// when they are complete.
func (h *voiceHandshake) setServer(token, endpoint string) (voiceCredentials, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.creds.token = token
	h.creds.endpoint = endpoint
	h.gotServer = true
	return h.completeLocked()
}

func (h *voiceHandshake) completeLocked() (voiceCredentials, bool) {
	if !h.gotState || !h.gotServer {
		return voiceCredentials{}, false
	}

	if h.want == 0 || (h.creds.channelID != nil && *h.creds.channelID == h.want) {
		select {
		case <-h.done:
		default:
			close(h.done)
		}
	}
	return h.creds, true
}
