package automod

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

func (m *AutomodModule) handleGuildMemberUpdate(_ *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	m.grantMemberGateRole(context.Background(), e.BeforeUpdate, e.Member)
}

// grantMemberGateRole gives the configured role to a member who has just
// accepted the server rules.
func (m *AutomodModule) grantMemberGateRole(ctx context.Context, before, after *discordgo.Member) {
	if before == nil || after == nil || after.User == nil {
		return
	}
	if !before.Pending || after.Pending {
		return
	}

	roles := m.ids(guildconfig.KeyMemberGateRole, after.GuildID)
	if len(roles) == 0 {
		return
	}

	err := m.discord.GuildMemberRoleAdd(after.GuildID, after.User.ID, roles[0], discordgo.WithContext(ctx))
	if err != nil {
		slog.Warn("failed to add membergate role",
			"guild_id", after.GuildID,
			"user_id", after.User.ID,
			"role_id", roles[0],
			"error", err,
		)
	}
}
