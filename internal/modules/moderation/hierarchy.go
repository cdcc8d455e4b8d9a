package moderation

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

// resolveTarget fetches the targeted member and checks that the invoker
// ranks above them. It reports false after replying when the command
// must not continue.
func (m *ModerationModule) resolveTarget(
	ctx context.Context,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	userID string,
) (*discordgo.Member, bool, error) {
	target, err := m.discord.GuildMember(i.GuildID, userID, discordgo.WithContext(ctx))
	if isNotFound(err) {
		return nil, false, bot.RespondContent(r, notInGuild, true)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch member: %w", err)
	}
	if target.User == nil {
		target.User = &discordgo.User{ID: userID}
	}

	roles, err := m.discord.GuildRoles(i.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch roles: %w", err)
	}

	if !outranks(i.Member.Roles, target.Roles, roles) {
		return nil, false, bot.RespondContent(r, cannotTarget, true)
	}
	return target, true, nil
}

// outranks reports whether any invoker role sits above the highest role
// of the target.
func outranks(invokerRoles, targetRoles []string, roles []*discordgo.Role) bool {
	positions := make(map[string]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}

	highest := 0
	for _, id := range targetRoles {
		highest = max(highest, positions[id])
	}

	for _, id := range invokerRoles {
		if pos, ok := positions[id]; ok && pos > highest {
			return true
		}
	}
	return false
}
