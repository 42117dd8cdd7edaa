package presentation

import (
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/chat/application"
)

// HelloHandler handles the hello command.
type HelloHandler struct {
	interactor *application.GreetInteractor
}

// NewHelloHandler creates a new HelloHandler.
func NewHelloHandler() *HelloHandler {
	return &HelloHandler{
		interactor: application.NewGreetInteractor(),
	}
}

// Handle greets the invoking user.
func (h *HelloHandler) Handle(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	result := h.interactor.Execute(inv.UserMention())

	return r.Reply(&bot.Reply{
		Content:   result.Message,
		Ephemeral: true,
	})
}

// HandleSay repeats what the user asked the bot to say.
func HandleSay(_ *discordgo.Session, inv *bot.Invocation, r bot.Responder) error {
	return r.Reply(&bot.Reply{
		Content:   inv.String("thing_to_say"),
		Ephemeral: true,
	})
}

// MentionHandler answers messages that start by mentioning the bot.
type MentionHandler struct {
	interactor *application.ReplyInteractor
}

// NewMentionHandler creates a new MentionHandler.
func NewMentionHandler(interactor *application.ReplyInteractor) *MentionHandler {
	return &MentionHandler{
		interactor: interactor,
	}
}

// HandleMessage is the discordgo event handler for MessageCreate events.
func (h *MentionHandler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || s.State.User == nil {
		return
	}

	text, ok := mentionText(m.Content, s.State.User.ID)
	if !ok {
		return
	}

	result := h.interactor.Execute(text)
	if !result.ShouldRespond {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, result.Response, m.Reference()); err != nil {
		slog.Error("failed to send message", "channel", m.ChannelID, "error", err)
	}
}

// mentionText returns what follows a leading mention of the bot.
func mentionText(content, botID string) (string, bool) {
	content = strings.TrimSpace(content)
	for _, mention := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if rest, ok := strings.CutPrefix(content, mention); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
