package domain

import "fmt"

// Greeting is the answer to the hello command.
type Greeting struct {
	Message string
}

// NewGreeting greets the user behind mention.
func NewGreeting(mention string) *Greeting {
	return &Greeting{
		Message: fmt.Sprintf("Hey %s! This is a slash command!", mention),
	}
}
