package bot

import (
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Reply is a response that can be delivered to either a slash command or a message command.
type Reply struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// Ephemeral hides the reply from other users. Message commands ignore it.
	Ephemeral bool
}

// Responder provides an abstraction for answering a command invocation.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Reply sends a response. Once the invocation has been acknowledged,
	// further replies are delivered as follow-ups.
	Reply(reply *Reply) error

	// DeferThenFollowUp acknowledges the invocation, runs work, and sends its reply.
	// An error from work is returned without a reply so the caller can report it.
	DeferThenFollowUp(ephemeral bool, work func() (*Reply, error)) error
}

// InteractionResponder implements Responder for application command and component interactions.
type InteractionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction

	mu           sync.Mutex
	acknowledged bool
}

// NewInteractionResponder creates a new InteractionResponder.
func NewInteractionResponder(s *discordgo.Session, i *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{
		session:     s,
		interaction: i,
	}
}

// Reply responds to the interaction, or sends a follow-up if it was already acknowledged.
func (r *InteractionResponder) Reply(reply *Reply) error {
	r.mu.Lock()
	acknowledged := r.acknowledged
	r.acknowledged = true
	r.mu.Unlock()

	if acknowledged {
		_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
			Content:    reply.Content,
			Embeds:     reply.Embeds,
			Components: reply.Components,
			Flags:      messageFlags(reply.Ephemeral),
		})
		return err
	}

	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    reply.Content,
			Embeds:     reply.Embeds,
			Components: reply.Components,
			Flags:      messageFlags(reply.Ephemeral),
		},
	})
}

// DeferThenFollowUp sends a deferred response, then follows up with work's reply.
func (r *InteractionResponder) DeferThenFollowUp(
	ephemeral bool,
	work func() (*Reply, error),
) error {
	r.mu.Lock()
	acknowledged := r.acknowledged
	r.acknowledged = true
	r.mu.Unlock()

	if !acknowledged {
		err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags: messageFlags(ephemeral),
			},
		})
		if err != nil {
			return err
		}
	}

	reply, err := work()
	if err != nil {
		return err
	}
	return r.Reply(reply)
}

func messageFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// MessageResponder implements Responder for prefix commands typed in a channel.
type MessageResponder struct {
	session *discordgo.Session
	message *discordgo.Message
}

// NewMessageResponder creates a new MessageResponder.
func NewMessageResponder(s *discordgo.Session, m *discordgo.Message) *MessageResponder {
	return &MessageResponder{
		session: s,
		message: m,
	}
}

// Reply sends a message that references the invoking message.
func (r *MessageResponder) Reply(reply *Reply) error {
	_, err := r.session.ChannelMessageSendComplex(r.message.ChannelID, &discordgo.MessageSend{
		Content:    reply.Content,
		Embeds:     reply.Embeds,
		Components: reply.Components,
		Reference:  r.message.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	})
	return err
}

// DeferThenFollowUp shows the typing indicator while work runs, then replies.
func (r *MessageResponder) DeferThenFollowUp(_ bool, work func() (*Reply, error)) error {
	if err := r.session.ChannelTyping(r.message.ChannelID); err != nil {
		slog.Debug("failed to send typing indicator", "channel", r.message.ChannelID, "error", err)
	}

	reply, err := work()
	if err != nil {
		return err
	}
	return r.Reply(reply)
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	Replies  []*Reply
	Deferred bool
	Err      error
}

// Reply records the reply for testing.
func (m *MockResponder) Reply(reply *Reply) error {
	m.Replies = append(m.Replies, reply)
	return m.Err
}

// DeferThenFollowUp records the deferral and the reply produced by work.
func (m *MockResponder) DeferThenFollowUp(_ bool, work func() (*Reply, error)) error {
	m.Deferred = true
	reply, err := work()
	if err != nil {
		return err
	}
	return m.Reply(reply)
}

// LastReply returns the most recent reply, or nil.
func (m *MockResponder) LastReply() *Reply {
	if len(m.Replies) == 0 {
		return nil
	}
	return m.Replies[len(m.Replies)-1]
}
