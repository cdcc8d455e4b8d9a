// Package automod reacts to guild events without user commands: link
// filtering, member gating and suggestion votes.
package automod

import (
	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

// DiscordAPI is the subset of *discordgo.Session used by automod.
type DiscordAPI interface {
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildEmojis(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// AutomodModule registers the automod event handlers.
type AutomodModule struct {
	discord  DiscordAPI
	settings bot.RoleSource
	selfID   func() string
}

// New creates the automod module.
func New() *AutomodModule {
	return &AutomodModule{}
}

// Name returns the module name.
func (m *AutomodModule) Name() string {
	return "automod"
}

// Commands returns nil as automod has no commands.
func (m *AutomodModule) Commands() []*bot.Command {
	return nil
}

// Components returns nil as automod has no components.
func (m *AutomodModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns the automod event handlers.
func (m *AutomodModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handleMessageCreate,
		m.handleGuildMemberUpdate,
		m.handleThreadCreate,
	}
}

// Init initializes the module.
func (m *AutomodModule) Init(deps bot.ModuleDependencies) error {
	m.discord = deps.Session
	m.settings = deps.Guilds
	m.selfID = func() string {
		if deps.Session == nil || deps.Session.State == nil || deps.Session.State.User == nil {
			return ""
		}
		return deps.Session.State.User.ID
	}
	return nil
}

// Shutdown cleans up module resources.
func (m *AutomodModule) Shutdown() error {
	return nil
}

func (m *AutomodModule) ids(key guildconfig.Key, guildID string) []string {
	value, ok := m.settings.GetValue(key, guildID)
	if !ok {
		return nil
	}
	ids, _ := value.AsIDs()
	return ids
}

func (m *AutomodModule) enabled(key guildconfig.Key, guildID string) bool {
	value, ok := m.settings.GetValue(key, guildID)
	if !ok {
		return false
	}
	b, _ := value.AsBool()
	return b
}
