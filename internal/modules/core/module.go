package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/storage"
)

// DiscordAPI is the subset of *discordgo.Session used by the core module.
type DiscordAPI interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessages(
		channelID string,
		limit int,
		beforeID, afterID, aroundID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// GuildRepository records which guilds the bot has joined.
type GuildRepository interface {
	Exists(ctx context.Context, guildID string) (bool, error)
	Create(ctx context.Context, guildID, ownerID, name string) error
	Delete(ctx context.Context, guildID string) error
}

// CommandRemover deletes registered platform commands.
type CommandRemover interface {
	Delete(ctx context.Context, name, guildID string) (int, error)
}

// CoreModule provides setup, configuration and housekeeping commands.
type CoreModule struct {
	discord  DiscordAPI
	guilds   GuildRepository
	config   *guildconfig.Store
	commands CommandRemover
}

// New creates the core module.
func New() *CoreModule {
	return &CoreModule{}
}

// Name returns the module name.
func (m *CoreModule) Name() string {
	return "core"
}

// Commands returns the slash commands for this module.
func (m *CoreModule) Commands() []*bot.Command {
	return []*bot.Command{
		{
			Definition: setupCommand,
			Permission: bot.Administrator,
			Handler:    m.handleSetup,
		},
		{
			Definition: configCommand,
			Permission: bot.RequireAdmin(m.config),
			Handler:    m.handleConfig,
		},
		{
			Definition: sayCommand,
			Permission: bot.RequireAdmin(m.config),
			Handler:    m.handleSay,
		},
		{
			Definition: deleteCommandCommand,
			Permission: bot.Administrator,
			Handler:    m.handleDeleteCommand,
		},
		{
			Definition: cleanCommand,
			Permission: bot.RequireAdmin(m.config),
			Handler:    m.handleClean,
		},
	}
}

// Components returns the say modal handler.
func (m *CoreModule) Components() []*bot.Component {
	return []*bot.Component{
		{ID: sayModalID, Action: m.handleSayModal},
	}
}

// EventHandlers returns the guild lifecycle handlers.
func (m *CoreModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handleGuildCreate,
		m.handleGuildDelete,
	}
}

// Init initializes the module.
func (m *CoreModule) Init(deps bot.ModuleDependencies) error {
	m.discord = deps.Session
	m.config = deps.Guilds
	m.guilds = storage.NewGuildRepository(deps.DB)
	m.commands = deps.Commands
	return nil
}

// Shutdown cleans up module resources.
func (m *CoreModule) Shutdown() error {
	return nil
}
