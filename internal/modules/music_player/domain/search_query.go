package domain

import (
	"net/url"
	"strings"
)

// searchPrefix asks the audio node for YouTube search results.
const searchPrefix = "ytsearch:"

// Query is what a user asked to play: a link to load or words to search for.
type Query struct {
	Text  string
	IsURL bool
}

// ParseQuery classifies user input. Absolute http(s) links and bare
// "www." hosts are links; everything else is searched.
func ParseQuery(input string) Query {
	text := strings.TrimSpace(input)
	return Query{Text: text, IsURL: looksLikeURL(text)}
}

// Empty reports whether there is nothing to look up.
func (q Query) Empty() bool {
	return q.Text == ""
}

// Identifier is the string the audio node resolves.
func (q Query) Identifier() string {
	switch {
	case !q.IsURL:
		return searchPrefix + q.Text
	case strings.HasPrefix(strings.ToLower(q.Text), "www."):
		return "https://" + q.Text
	default:
		return q.Text
	}
}

func looksLikeURL(text string) bool {
	if strings.ContainsAny(text, " \t\n") {
		return false
	}
	if strings.HasPrefix(strings.ToLower(text), "www.") {
		return len(text) > len("www.")
	}

	u, err := url.Parse(text)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
