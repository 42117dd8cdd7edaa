package presentation

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/music_player/presentation/controls"
)

// ControlTracker reports whether a message still has live controls and
// restarts their expiry.
type ControlTracker interface {
	Touch(messageID snowflake.ID) bool
}

// ComponentHandler runs the playback buttons on Now Playing messages through
// the same handlers as the typed commands.
type ComponentHandler struct {
	handlers *Handlers
	tracker  ControlTracker
}

// NewComponentHandler creates a new ComponentHandler.
func NewComponentHandler(handlers *Handlers, tracker ControlTracker) *ComponentHandler {
	return &ComponentHandler{
		handlers: handlers,
		tracker:  tracker,
	}
}

// HandleComponent answers clicks on playback controls.
func (h *ComponentHandler) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if !controls.IsControl(i.MessageComponentData().CustomID) {
		return
	}

	h.Dispatch(s, i, bot.NewInteractionResponder(s, i.Interaction))
}

// Dispatch runs the action a control click asks for. Clicks on expired or
// foreign controls are refused without touching the player.
func (h *ComponentHandler) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) {
	action, inv, err := controlInvocation(i)
	if err != nil {
		slog.Warn("failed to read control click", "custom_id", i.MessageComponentData().CustomID, "error", err)
		h.reply(r, expiredReply())
		return
	}

	messageID, err := snowflake.Parse(i.Message.ID)
	if err != nil || !h.tracker.Touch(messageID) {
		h.reply(r, expiredReply())
		return
	}

	var handler bot.CommandHandler
	switch action {
	case controls.ActionPause:
		handler = h.handlers.HandlePause
	case controls.ActionResume:
		handler = h.handlers.HandleResume
	case controls.ActionSkip:
		handler = h.handlers.HandleSkip
	case controls.ActionStop:
		handler = h.handlers.HandleStop
	}

	if err := handler(s, inv, r); err != nil {
		slog.Error("failed to handle control click",
			"action", action,
			"guild", inv.GuildID,
			"user", inv.UserID,
			"error", err,
		)
		h.reply(r, errorReply("An error occurred while processing your request."))
	}
}

func (h *ComponentHandler) reply(r bot.Responder, reply *bot.Reply) {
	if err := r.Reply(reply); err != nil {
		slog.Error("failed to answer control click", "error", err)
	}
}

func expiredReply() *bot.Reply {
	return &bot.Reply{Content: controls.ExpiredMessage, Ephemeral: true}
}

// controlInvocation builds the invocation a control click stands for. The
// guild in the custom ID must match the guild the click came from.
func controlInvocation(i *discordgo.InteractionCreate) (controls.Action, *bot.Invocation, error) {
	action, guildID, err := controls.ParseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		return "", nil, err
	}
	if i.GuildID != guildID.String() || i.Message == nil {
		return "", nil, controls.ErrUnknownControl
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return "", nil, err
	}

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return "", nil, bot.ErrMissingUser
	}
	userID, err := snowflake.Parse(user.ID)
	if err != nil {
		return "", nil, err
	}

	return action, &bot.Invocation{
		Command:   string(action),
		Source:    bot.SourceInteraction,
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    userID,
		Username:  user.Username,
		Member:    i.Member,
		Options:   map[string]string{},
	}, nil
}
