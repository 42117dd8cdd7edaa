package application

import (
	"math/rand/v2"

	"github.com/sglre6355/tavernbot/internal/modules/chat/domain"
)

// GreetInteractor handles the hello use case.
type GreetInteractor struct{}

// NewGreetInteractor creates a new GreetInteractor.
func NewGreetInteractor() *GreetInteractor {
	return &GreetInteractor{}
}

// Execute greets the user behind mention.
func (g *GreetInteractor) Execute(mention string) *domain.Greeting {
	return domain.NewGreeting(mention)
}

// ReplyInteractor handles the mention reply use case.
type ReplyInteractor struct {
	dice domain.Dice
}

// NewReplyInteractor creates a new ReplyInteractor. A nil dice uses math/rand.
func NewReplyInteractor(dice domain.Dice) *ReplyInteractor {
	if dice == nil {
		dice = randomDice{}
	}
	return &ReplyInteractor{dice: dice}
}

// Execute evaluates the content and returns the reply.
func (r *ReplyInteractor) Execute(content string) *domain.MentionReply {
	return domain.NewMentionReply(content, r.dice)
}

type randomDice struct{}

func (randomDice) Roll(sides int) int { return rand.IntN(sides) + 1 }
func (randomDice) Pick(n int) int     { return rand.IntN(n) }
