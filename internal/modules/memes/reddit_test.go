package memes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sglre6355/tavernbot/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `{"data":{"children":[
	{"data":{"id":"p1","title":"First","score":42,"url":"https://i.redd.it/x.png","subreddit":"ProgrammerHumor","author":"alice"}},
	{"data":{"id":"p2","title":"Second","score":7,"url":"https://example.com/post","subreddit":"ProgrammerHumor","author":"bob"}}
]}}`

func TestRedditClient_TopOfWeek(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(listingBody))
	}))
	t.Cleanup(server.Close)

	client := NewRedditClient(httpclient.New(httpclient.WithUserAgent("tavernbot/1.0")), server.URL+"/")
	posts, err := client.TopOfWeek(context.Background(), "ProgrammerHumor", 100)
	require.NoError(t, err)

	assert.Equal(t, "/r/ProgrammerHumor/top", gotPath)
	assert.Equal(t, "limit=100&raw_json=1&t=week", gotQuery)
	assert.Equal(t, "tavernbot/1.0", gotAgent)
	require.Len(t, posts, 2)
	assert.Equal(t, Post{
		ID:        "p1",
		Title:     "First",
		Score:     42,
		URL:       "https://i.redd.it/x.png",
		Subreddit: "ProgrammerHumor",
		Author:    "alice",
	}, posts[0])
}

func TestOAuthHTTPClient_FetchesToken(t *testing.T) {
	var tokenAgent, apiAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenAgent = r.Header.Get("User-Agent")
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/r/memes/top", func(w http.ResponseWriter, r *http.Request) {
		apiAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"children":[]}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &Config{RedditClientID: "id", RedditClientSecret: "secret", RedditUsername: "tavern"}
	client := NewRedditClient(
		httpclient.New(httpclient.WithHTTPClient(NewOAuthHTTPClient(cfg, server.URL+"/token"))),
		server.URL,
	)

	posts, err := client.TopOfWeek(context.Background(), "memes", 10)
	require.NoError(t, err)

	assert.Empty(t, posts)
	assert.Equal(t, "tavernbot/1.0 (by /u/tavern)", tokenAgent)
	assert.Equal(t, "Bearer tok", apiAuth)
}

func TestPost_ImageURL(t *testing.T) {
	tests := map[string]string{
		"https://i.redd.it/a.jpg":  "https://i.redd.it/a.jpg",
		"https://i.redd.it/a.JPEG": "https://i.redd.it/a.JPEG",
		"https://i.redd.it/a.gif":  "https://i.redd.it/a.gif",
		"https://v.redd.it/a":      "",
		"https://example.com/png":  "",
	}

	for url, want := range tests {
		post := Post{URL: url}
		assert.Equal(t, want, post.ImageURL(), url)
	}
}

func TestConfig(t *testing.T) {
	assert.False(t, (&Config{RedditClientID: "id"}).Enabled())
	assert.True(t, (&Config{RedditClientID: "id", RedditClientSecret: "s"}).Enabled())
	assert.Equal(t, "tavernbot/1.0", (&Config{}).UserAgent())
}
