package memes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sglre6355/tavernbot/internal/httpclient"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Reddit endpoints for application-only OAuth.
const (
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL   = "https://oauth.reddit.com"
)

// Post is a Reddit link post.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Score     int    `json:"score"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit"`
	Author    string `json:"author"`
	Permalink string `json:"permalink"`
}

// ImageURL returns the post's URL if it links an image Discord can embed.
func (p *Post) ImageURL() string {
	lower := strings.ToLower(p.URL)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return p.URL
		}
	}
	return ""
}

type listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RedditClient reads subreddit listings.
type RedditClient struct {
	http    *httpclient.Client
	baseURL string
}

// NewRedditClient creates a new RedditClient.
func NewRedditClient(client *httpclient.Client, baseURL string) *RedditClient {
	return &RedditClient{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// TopOfWeek returns up to limit of the week's top posts in subreddit.
func (c *RedditClient) TopOfWeek(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	query := url.Values{}
	query.Set("t", "week")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("raw_json", "1")

	endpoint := fmt.Sprintf("%s/r/%s/top?%s", c.baseURL, url.PathEscape(subreddit), query.Encode())

	var l listing
	if err := c.http.GetJSON(ctx, endpoint, &l); err != nil {
		return nil, fmt.Errorf("failed to fetch top posts: %w", err)
	}

	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// NewOAuthHTTPClient returns an HTTP client that authenticates as the
// application with the client credentials grant and refreshes its token.
func NewOAuthHTTPClient(cfg *Config, tokenURL string) *http.Client {
	oauthConfig := &clientcredentials.Config{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	// Reddit rejects token requests without a descriptive User-Agent.
	base := &http.Client{
		Timeout:   httpclient.DefaultTimeout,
		Transport: &userAgentTransport{userAgent: cfg.UserAgent(), next: http.DefaultTransport},
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	client := oauthConfig.Client(ctx)
	client.Timeout = httpclient.DefaultTimeout
	return client
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}
