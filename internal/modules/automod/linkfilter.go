package automod

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

const linkWarning = "Hey there! :wave: Link's are disabled in this channel."

// maxLinkLength is the longest text still treated as a link.
const maxLinkLength = 2083

var linkPattern = regexp.MustCompile(`(?i)https?://\S+`)

func (m *AutomodModule) handleMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	m.filterLinks(context.Background(), e.Message)
}

// filterLinks deletes a message with a link unless the author or channel
// is whitelisted, and tells the author why.
func (m *AutomodModule) filterLinks(ctx context.Context, msg *discordgo.Message) {
	if msg == nil || msg.GuildID == "" || msg.Author == nil || msg.Author.Bot || msg.Member == nil {
		return
	}
	if msg.Author.ID == m.selfID() {
		return
	}
	if !m.enabled(guildconfig.KeyLinkFiltering, msg.GuildID) {
		return
	}
	if !containsLink(msg.Content) {
		return
	}

	for _, role := range m.ids(guildconfig.KeyLinkFilterRoleWL, msg.GuildID) {
		if slices.Contains(msg.Member.Roles, role) {
			return
		}
	}
	if slices.Contains(m.ids(guildconfig.KeyLinkFilterChannelWL, msg.GuildID), msg.ChannelID) {
		return
	}

	logger := slog.With("guild_id", msg.GuildID, "channel_id", msg.ChannelID, "user_id", msg.Author.ID)

	if err := m.discord.ChannelMessageDelete(msg.ChannelID, msg.ID, discordgo.WithContext(ctx)); err != nil {
		logger.Warn("failed to delete link message", "error", err)
		return
	}

	channel, err := m.discord.UserChannelCreate(msg.Author.ID, discordgo.WithContext(ctx))
	if err != nil {
		logger.Debug("failed to open DM for link warning", "error", err)
		return
	}
	if _, err := m.discord.ChannelMessageSend(channel.ID, linkWarning, discordgo.WithContext(ctx)); err != nil {
		// Members may have DMs from guild members disabled.
		logger.Debug("failed to send link warning", "error", err)
	}
}

// containsLink reports whether content holds an http or https URL with a
// host name.
func containsLink(content string) bool {
	for _, candidate := range linkPattern.FindAllString(content, -1) {
		if len(candidate) >= maxLinkLength {
			continue
		}
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		host := u.Hostname()
		if host == "localhost" || strings.Contains(strings.Trim(host, "."), ".") {
			return true
		}
	}
	return false
}
