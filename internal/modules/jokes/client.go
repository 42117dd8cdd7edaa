package jokes

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/sglre6355/tavernbot/internal/httpclient"
)

// DefaultBaseURL is the JokeAPI endpoint jokes are fetched from.
const DefaultBaseURL = "https://v2.jokeapi.dev/joke"

// ErrNoJoke is returned when JokeAPI answers with an error payload.
var ErrNoJoke = errors.New("joke API returned no joke")

// joke is the JokeAPI response. Single jokes carry Joke; two-part jokes
// carry Setup and Delivery.
type joke struct {
	Error    bool   `json:"error"`
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
}

func (j *joke) text() string {
	if j.Type == "twopart" {
		return fmt.Sprintf("%s - **%s**", j.Setup, j.Delivery)
	}
	return j.Joke
}

// Client fetches jokes from JokeAPI.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

// NewClient creates a new Client. An empty baseURL uses DefaultBaseURL.
func NewClient(client *httpclient.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    client,
		baseURL: baseURL,
	}
}

// Random returns a random joke from category, formatted for chat.
func (c *Client) Random(ctx context.Context, category string) (string, error) {
	var j joke
	if err := c.http.GetJSON(ctx, c.baseURL+"/"+url.PathEscape(category), &j); err != nil {
		return "", fmt.Errorf("failed to fetch joke: %w", err)
	}
	if j.Error {
		return "", ErrNoJoke
	}

	text := j.text()
	if text == "" {
		return "", ErrNoJoke
	}
	return text, nil
}
