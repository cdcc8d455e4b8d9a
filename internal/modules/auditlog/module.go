// Package auditlog posts channel, role, message and member changes to the
// log channel of each guild.
package auditlog

import (
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

const (
	colorCreated = 0x00d166
	colorDeleted = 0xdd6053
	colorChanged = 0xf8c300
)

// DiscordAPI is the subset of *discordgo.Session used by the audit log.
type DiscordAPI interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AuditLogModule registers the guild logging event handlers. Logging is
// enabled per guild by setting discord.logchannel.
type AuditLogModule struct {
	discord     DiscordAPI
	settings    bot.RoleSource
	channelName func(channelID string) string
	roles       *roleNames
	now         func() time.Time
}

// New creates the audit log module.
func New() *AuditLogModule {
	return &AuditLogModule{roles: newRoleNames(), now: time.Now}
}

// Name returns the module name.
func (m *AuditLogModule) Name() string {
	return "auditlog"
}

// Commands returns nil as the audit log has no commands.
func (m *AuditLogModule) Commands() []*bot.Command {
	return nil
}

// Components returns nil as the audit log has no components.
func (m *AuditLogModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns the logging event handlers.
func (m *AuditLogModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handleGuildCreate,
		m.handleGuildDelete,
		m.handleChannelCreate,
		m.handleChannelDelete,
		m.handleRoleCreate,
		m.handleRoleUpdate,
		m.handleRoleDelete,
		m.handleMessageUpdate,
		m.handleMessageDelete,
		m.handleMemberUpdate,
	}
}

// Init initializes the module.
func (m *AuditLogModule) Init(deps bot.ModuleDependencies) error {
	m.discord = deps.Session
	m.settings = deps.Guilds
	m.channelName = func(channelID string) string {
		if deps.Session == nil || deps.Session.State == nil {
			return ""
		}
		channel, err := deps.Session.State.Channel(channelID)
		if err != nil {
			return ""
		}
		return channel.Name
	}
	return nil
}

// Shutdown cleans up module resources.
func (m *AuditLogModule) Shutdown() error {
	return nil
}

func (m *AuditLogModule) logChannel(guildID string) string {
	if guildID == "" {
		return ""
	}
	value, ok := m.settings.GetValue(guildconfig.KeyLogChannel, guildID)
	if !ok {
		return ""
	}
	ids, _ := value.AsIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// send posts embed to the log channel of guildID. Failures are logged.
func (m *AuditLogModule) send(guildID string, embed *discordgo.MessageEmbed) {
	channelID := m.logChannel(guildID)
	if channelID == "" {
		return
	}

	embed.Timestamp = bot.Timestamp(m.now())
	if embed.Footer == nil {
		embed.Footer = bot.Footer()
	}
	if _, err := m.discord.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Warn("failed to send audit log entry",
			"guild_id", guildID,
			"channel_id", channelID,
			"error", err,
		)
	}
}
