package moderation

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/storage"
)

// DiscordAPI is the subset of *discordgo.Session used for moderation.
type DiscordAPI interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
	GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
	GuildBanCreateWithReason(guildID, userID, reason string, days int, options ...discordgo.RequestOption) error
	GuildBan(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.GuildBan, error)
	GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildAuditLog(guildID, userID, beforeID string, actionType, limit int, options ...discordgo.RequestOption) (*discordgo.GuildAuditLog, error)
}

// WarningStore persists member warnings.
type WarningStore interface {
	Add(ctx context.Context, w *storage.MemberWarning) error
	CountActive(ctx context.Context, memberID, guildID string) (int64, error)
	MarkPunished(ctx context.Context, memberID, guildID string) error
}

// ModerationModule provides member punishment commands.
type ModerationModule struct {
	discord  DiscordAPI
	warnings WarningStore
	settings bot.RoleSource
	now      func() time.Time
	selfID   func() string
}

// New creates the moderation module.
func New() *ModerationModule {
	return &ModerationModule{now: time.Now}
}

// Name returns the module name.
func (m *ModerationModule) Name() string {
	return "moderation"
}

// Commands returns the slash commands for this module.
func (m *ModerationModule) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: kickCommand, Permission: bot.RequireMod(m.settings), Handler: m.handleKick},
		{Definition: banCommand, Permission: bot.RequireAdmin(m.settings), Handler: m.handleBan},
		{Definition: unbanCommand, Permission: bot.RequireAdmin(m.settings), Handler: m.handleUnban},
		{Definition: timeoutCommand, Permission: bot.RequireMod(m.settings), Handler: m.handleTimeout},
		{Definition: warnCommand, Permission: bot.RequireMod(m.settings), Handler: m.handleWarn},
	}
}

// Components returns nil as this module has no components.
func (m *ModerationModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns the ban event handlers that log bans made outside
// of the bot.
func (m *ModerationModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		m.handleGuildBanAdd,
		m.handleGuildBanRemove,
	}
}

// Init initializes the module.
func (m *ModerationModule) Init(deps bot.ModuleDependencies) error {
	m.discord = deps.Session
	m.settings = deps.Guilds
	m.warnings = storage.NewWarningRepository(deps.DB)
	m.selfID = func() string {
		if deps.Session == nil || deps.Session.State == nil || deps.Session.State.User == nil {
			return ""
		}
		return deps.Session.State.User.ID
	}
	return nil
}

// Shutdown cleans up module resources.
func (m *ModerationModule) Shutdown() error {
	return nil
}

func (m *ModerationModule) punishChannel(guildID string) string {
	value, ok := m.settings.GetValue(guildconfig.KeyPunishChannel, guildID)
	if !ok {
		return ""
	}
	ids, _ := value.AsIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func (m *ModerationModule) maxWarnings(guildID string) int64 {
	value, ok := m.settings.GetValue(guildconfig.KeyMaxWarnings, guildID)
	if !ok {
		return 0
	}
	n, _ := value.AsNumber()
	return int64(n)
}
