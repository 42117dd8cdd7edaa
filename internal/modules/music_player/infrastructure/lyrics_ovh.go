package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sglre6355/tavernbot/internal/httpclient"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/application/ports"
)

// DefaultLyricsBaseURL is the lyrics.ovh API root.
const DefaultLyricsBaseURL = "https://api.lyrics.ovh/v1"

// Ensure LyricsOVHClient implements ports.LyricsProvider.
var _ ports.LyricsProvider = (*LyricsOVHClient)(nil)

// LyricsOVHClient looks up lyrics through the lyrics.ovh API.
type LyricsOVHClient struct {
	client  *httpclient.Client
	baseURL string
}

// NewLyricsOVHClient creates a new LyricsOVHClient. An empty baseURL uses DefaultLyricsBaseURL.
func NewLyricsOVHClient(client *httpclient.Client, baseURL string) *LyricsOVHClient {
	if baseURL == "" {
		baseURL = DefaultLyricsBaseURL
	}
	return &LyricsOVHClient{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type lyricsResponse struct {
	Lyrics string `json:"lyrics"`
}

// Lyrics returns the lyrics of a song, or "" if lyrics.ovh does not know it.
func (c *LyricsOVHClient) Lyrics(ctx context.Context, artist, title string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s",
		c.baseURL,
		url.PathEscape(strings.TrimSpace(artist)),
		url.PathEscape(cleanTitle(title)),
	)

	var resp lyricsResponse
	if err := c.client.GetJSON(ctx, endpoint, &resp); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", err
	}

	return strings.ReplaceAll(resp.Lyrics, "\r\n", "\n"), nil
}

// cleanTitle drops decorations video titles commonly carry, such as
// "(Official Video)" or "[Lyrics]".
func cleanTitle(title string) string {
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		for {
			start := strings.Index(title, pair[0])
			if start < 0 {
				break
			}
			end := strings.Index(title[start:], pair[1])
			if end < 0 {
				break
			}
			title = title[:start] + title[start+end+1:]
		}
	}
	return strings.Join(strings.Fields(title), " ")
}
