// Package controls builds the playback buttons attached to Now Playing messages
// and expires them after a period without clicks.
package controls

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// Prefix is the first segment of every custom ID this package produces.
const Prefix = "music_player"

// ExpiredMessage is shown to users who click controls that have expired.
const ExpiredMessage = "These controls have expired."

// ErrUnknownControl is returned for custom IDs that were not built by CustomID.
var ErrUnknownControl = errors.New("unknown control")

// Action is what a playback button does.
type Action string

const (
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionSkip   Action = "skip"
	ActionStop   Action = "stop"
)

func (a Action) valid() bool {
	switch a {
	case ActionPause, ActionResume, ActionSkip, ActionStop:
		return true
	}
	return false
}

// CustomID returns the custom ID of a button acting on a guild's player.
func CustomID(action Action, guildID snowflake.ID) string {
	return fmt.Sprintf("%s:%s:%d", Prefix, action, guildID)
}

// IsControl reports whether a custom ID belongs to this package.
func IsControl(customID string) bool {
	return strings.HasPrefix(customID, Prefix+":")
}

// ParseCustomID splits a custom ID built by CustomID.
func ParseCustomID(customID string) (Action, snowflake.ID, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != Prefix {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownControl, customID)
	}

	action := Action(parts[1])
	if !action.valid() {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownControl, customID)
	}

	guildID, err := snowflake.Parse(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrUnknownControl, customID)
	}

	return action, guildID, nil
}

// Components returns the button row for a guild's Now Playing message.
func Components(guildID snowflake.ID, disabled bool) []discordgo.MessageComponent {
	button := func(label string, style discordgo.ButtonStyle, action Action) discordgo.Button {
		return discordgo.Button{
			Label:    label,
			Style:    style,
			CustomID: CustomID(action, guildID),
			Disabled: disabled,
		}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				button("Pause", discordgo.PrimaryButton, ActionPause),
				button("Resume", discordgo.SuccessButton, ActionResume),
				button("Skip", discordgo.SecondaryButton, ActionSkip),
				button("Stop", discordgo.DangerButton, ActionStop),
			},
		},
	}
}
