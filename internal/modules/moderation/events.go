package moderation

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

func (m *ModerationModule) handleGuildBanAdd(_ *discordgo.Session, e *discordgo.GuildBanAdd) {
	m.logBanEvent(context.Background(), e.GuildID, e.User, discordgo.AuditLogActionMemberBanAdd, punishBanned)
}

func (m *ModerationModule) handleGuildBanRemove(_ *discordgo.Session, e *discordgo.GuildBanRemove) {
	m.logBanEvent(context.Background(), e.GuildID, e.User, discordgo.AuditLogActionMemberBanRemove, punishUnbanned)
}

// logBanEvent logs a ban change made from the Discord client. The latest
// audit log entry names who made it. Changes made by the bot itself were
// logged by the command that made them.
func (m *ModerationModule) logBanEvent(ctx context.Context, guildID string, target *discordgo.User, action discordgo.AuditLogAction, name string) {
	if target == nil || m.punishChannel(guildID) == "" {
		return
	}

	log, err := m.discord.GuildAuditLog(guildID, "", "", int(action), 1, discordgo.WithContext(ctx))
	if err != nil {
		slog.Warn("failed to fetch ban audit log", "guild_id", guildID, "error", err)
		return
	}
	if len(log.AuditLogEntries) == 0 {
		return
	}

	entry := log.AuditLogEntries[0]
	if entry.TargetID != target.ID || entry.UserID == "" {
		return
	}
	if m.selfID != nil && entry.UserID == m.selfID() {
		return
	}

	executor := &discordgo.User{ID: entry.UserID}
	for _, u := range log.Users {
		if u.ID == entry.UserID {
			executor = u
			break
		}
	}

	reason := entry.Reason
	if reason == "" {
		reason = noReason
	}
	m.logPunishment(ctx, punishment{
		guildID:   guildID,
		inflictor: executor,
		target:    target,
		action:    name,
		reason:    reason,
	})
}
