package domain

import (
	"fmt"
	"strings"
)

// Fallbacks are used when a mention matches no keyword.
var Fallbacks = []string{
	"I do not understand...",
	"What are you talking about?",
	"Do you mind rephrasing that?",
}

// Dice supplies randomness for mention replies.
type Dice interface {
	// Roll returns a value in [1, sides].
	Roll(sides int) int
	// Pick returns an index in [0, n).
	Pick(n int) int
}

// MentionReply is the bot's answer to a message that mentions it.
type MentionReply struct {
	ShouldRespond bool
	Response      string
}

// NewMentionReply picks a reply for the text that accompanied the mention.
// Keywords are checked in order; the first match wins.
func NewMentionReply(content string, dice Dice) *MentionReply {
	lowered := strings.ToLower(strings.TrimSpace(content))

	var response string
	switch {
	case lowered == "":
		response = "whats that..."
	case strings.Contains(lowered, "hello"):
		response = "Hello there!"
	case strings.Contains(lowered, "sup bro"):
		response = "nothing much what about you?"
	case strings.Contains(lowered, "bye"):
		response = "bye !"
	case strings.Contains(lowered, "roll dice"):
		response = fmt.Sprintf("You rolled: %d", dice.Roll(6))
	default:
		response = Fallbacks[dice.Pick(len(Fallbacks))]
	}

	return &MentionReply{
		ShouldRespond: true,
		Response:      response,
	}
}
