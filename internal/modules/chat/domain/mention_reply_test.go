package domain

import (
	"slices"
	"testing"
)

type fixedDice struct {
	roll int
	pick int
}

func (d fixedDice) Roll(int) int { return d.roll }
func (d fixedDice) Pick(int) int { return d.pick }

func TestNewMentionReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty", content: "   ", want: "whats that..."},
		{name: "hello", content: "HELLO bot", want: "Hello there!"},
		{name: "sup bro", content: "sup bro", want: "nothing much what about you?"},
		{name: "bye", content: "ok bye", want: "bye !"},
		{name: "roll dice", content: "roll dice please", want: "You rolled: 4"},
		{name: "hello wins over bye", content: "hello and bye", want: "Hello there!"},
		{name: "fallback", content: "what is love", want: "What are you talking about?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewMentionReply(tt.content, fixedDice{roll: 4, pick: 1})

			if !result.ShouldRespond {
				t.Error("expected ShouldRespond to be true")
			}
			if result.Response != tt.want {
				t.Errorf("expected response %q, got %q", tt.want, result.Response)
			}
		})
	}
}

func TestNewMentionReply_FallbackIsKnown(t *testing.T) {
	for i := range Fallbacks {
		result := NewMentionReply("gibberish", fixedDice{pick: i})
		if !slices.Contains(Fallbacks, result.Response) {
			t.Errorf("unexpected fallback %q", result.Response)
		}
	}
}

func TestNewGreeting(t *testing.T) {
	greeting := NewGreeting("<@3>")

	if greeting.Message != "Hey <@3>! This is a slash command!" {
		t.Errorf("unexpected greeting %q", greeting.Message)
	}
}
