package dice

import (
	"fmt"
	"math/rand/v2"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
)

// Limits on the number of sides.
const (
	DefaultSides = 6
	MinSides     = 2
	MaxSides     = 1000
)

func init() {
	bot.Register(&DiceModule{})
}

// DiceModule provides the roll command.
type DiceModule struct {
	roll func(sides int) int
}

// Name returns the module name.
func (m *DiceModule) Name() string {
	return "dice"
}

// Commands returns the commands for this module.
func (m *DiceModule) Commands() []*discordgo.ApplicationCommand {
	minSides := float64(MinSides)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "roll",
			Description: "Roll a die",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "sides",
					Description: fmt.Sprintf("Number of sides (default: %d)", DefaultSides),
					MinValue:    &minSides,
					MaxValue:    MaxSides,
				},
			},
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *DiceModule) CommandHandlers() map[string]bot.CommandHandler {
	return map[string]bot.CommandHandler{
		"roll": m.handleRoll,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *DiceModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *DiceModule) Init(bot.ModuleDependencies) error {
	if m.roll == nil {
		m.roll = func(sides int) int { return rand.IntN(sides) + 1 }
	}
	return nil
}

// Shutdown cleans up module resources.
func (m *DiceModule) Shutdown() error {
	return nil
}

func (m *DiceModule) handleRoll(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	sides, err := inv.Int("sides", DefaultSides)
	if err == nil && (sides < MinSides || sides > MaxSides) {
		err = fmt.Errorf("%w: sides must be between %d and %d", bot.ErrInvalidOption, MinSides, MaxSides)
	}
	if err != nil {
		return r.Reply(&bot.Reply{Content: err.Error(), Ephemeral: true})
	}

	return r.Reply(&bot.Reply{Content: fmt.Sprintf("You rolled a %d!", m.roll(int(sides)))})
}
