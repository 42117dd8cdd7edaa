package help

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tavernbot/internal/bot"
	"github.com/sglre6355/tavernbot/internal/prefixes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID snowflake.ID = 7

type fakePrefixes struct {
	prefix string
	setErr error
	set    map[snowflake.ID]string
}

func (f *fakePrefixes) Prefix(context.Context, snowflake.ID) string {
	return f.prefix
}

func (f *fakePrefixes) Set(_ context.Context, guildID snowflake.ID, prefix string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.set == nil {
		f.set = make(map[snowflake.ID]string)
	}
	f.set[guildID] = prefix
	return nil
}

func invocation(command string, options map[string]string) *bot.Invocation {
	if options == nil {
		options = map[string]string{}
	}
	return &bot.Invocation{Command: command, GuildID: testGuildID, UserID: 1, Options: options}
}

func TestHelpHandler_ListsCommandsWithPrefix(t *testing.T) {
	commands := func() []*discordgo.ApplicationCommand {
		return []*discordgo.ApplicationCommand{
			{
				Name:        "joke",
				Description: "Get a joke",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "category"},
				},
			},
			{
				Name:        "weather",
				Description: "Get the weather",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "city", Required: true},
				},
			},
		}
	}
	h := NewHelpHandler(&fakePrefixes{prefix: "?"}, commands)
	r := &bot.MockResponder{}

	require.NoError(t, h.Handle(nil, invocation("help", nil), r))

	embed := r.LastReply().Embeds[0]
	assert.Equal(t, "`?joke [category]` - Get a joke\n`?weather <city>` - Get the weather\n", embed.Description)
	assert.Contains(t, embed.Footer.Text, "Prefix: ?")
}

func TestHelpModule_CommandsRequirePermissions(t *testing.T) {
	m := &HelpModule{}
	require.NoError(t, m.Init(bot.ModuleDependencies{}))

	perms := make(map[string]*int64)
	for _, cmd := range m.Commands() {
		perms[cmd.Name] = cmd.DefaultMemberPermissions
	}

	assert.Nil(t, perms["help"])
	require.NotNil(t, perms["prefix"])
	assert.Equal(t, int64(discordgo.PermissionManageGuild), *perms["prefix"])
	require.NotNil(t, perms["send_to_all"])
	assert.Equal(t, int64(discordgo.PermissionAdministrator), *perms["send_to_all"])

	handlers := m.CommandHandlers()
	for _, cmd := range m.Commands() {
		assert.Contains(t, handlers, cmd.Name)
	}
}

func TestHelpModule_WithoutPrefixStore(t *testing.T) {
	m := &HelpModule{}
	require.NoError(t, m.Init(bot.ModuleDependencies{Config: &bot.Config{DefaultPrefix: "$"}}))

	r := &bot.MockResponder{}
	require.NoError(t, m.CommandHandlers()["prefix"](nil, invocation("prefix", map[string]string{"value": "?"}), r))
	assert.Equal(t, prefixDisabledMessage, r.LastReply().Content)

	r = &bot.MockResponder{}
	require.NoError(t, m.CommandHandlers()["help"](nil, invocation("help", nil), r))
	assert.Contains(t, r.LastReply().Embeds[0].Footer.Text, "Prefix: $")
}

func TestPrefixHandler(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		guildID snowflake.ID
		setErr  error
		want    string
		wantErr bool
	}{
		{
			name:    "sets prefix",
			value:   "?",
			guildID: testGuildID,
			want:    "Prefix for this server set to **'?'**",
		},
		{
			name:    "rejects whitespace",
			value:   "   ",
			guildID: testGuildID,
			setErr:  prefixes.ErrEmptyPrefix,
			want:    emptyPrefixMessage,
		},
		{
			name:  "direct message",
			value: "?",
			want:  "Prefixes can only be changed in a server.",
		},
		{
			name:    "storage failure",
			value:   "?",
			guildID: testGuildID,
			setErr:  errors.New("disk full"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakePrefixes{setErr: tt.setErr}
			h := NewPrefixHandler(store)
			inv := invocation("prefix", map[string]string{"value": tt.value})
			inv.GuildID = tt.guildID
			r := &bot.MockResponder{}

			err := h.Handle(nil, inv, r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.LastReply().Content)
		})
	}
}

func TestPrefixHandler_PersistsThroughStore(t *testing.T) {
	store := &fakePrefixes{}
	h := NewPrefixHandler(store)

	require.NoError(t, h.Handle(nil, invocation("prefix", map[string]string{"value": ">>"}), &bot.MockResponder{}))
	assert.Equal(t, ">>", store.set[testGuildID])
}
