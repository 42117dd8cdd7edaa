package chat

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/modules/chat/application"
	"github.com/sglre6355/tavernbot/internal/modules/chat/presentation"
)

func init() {
	bot.Register(&ChatModule{})
}

// ChatModule provides small talk: greetings, echoes, and replies to mentions.
type ChatModule struct {
	helloHandler   *presentation.HelloHandler
	mentionHandler *presentation.MentionHandler
}

// Name returns the module name.
func (m *ChatModule) Name() string {
	return "chat"
}

// Commands returns the commands for this module.
func (m *ChatModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "hello",
			Description: "Say hello to the bot",
		},
		{
			Name:        "say",
			Description: "Make the bot say something",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "thing_to_say",
					Description: "What should I say?",
					Required:    true,
				},
			},
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *ChatModule) CommandHandlers() map[string]bot.CommandHandler {
	return map[string]bot.CommandHandler{
		"hello": m.helloHandler.Handle,
		"say":   presentation.HandleSay,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *ChatModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.mentionHandler.HandleMessage,
	}
}

// Init initializes the module.
func (m *ChatModule) Init(bot.ModuleDependencies) error {
	m.helloHandler = presentation.NewHelloHandler()
	m.mentionHandler = presentation.NewMentionHandler(application.NewReplyInteractor(nil))
	return nil
}

// Shutdown cleans up module resources.
func (m *ChatModule) Shutdown() error {
	return nil
}
