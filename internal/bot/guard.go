package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

// RoleSource provides configured role values for a guild.
type RoleSource interface {
	GetValue(key guildconfig.Key, guildID string) (guildconfig.Value, bool)
}

// IsDMInteraction reports whether the interaction happened outside of a guild.
func IsDMInteraction(i *discordgo.InteractionCreate) bool {
	return i.GuildID == ""
}

// HasModPermissions reports whether the invoking member is an administrator,
// holds the configured admin role, or, unless requireAdmin is set, holds the
// configured mod role.
func HasModPermissions(i *discordgo.InteractionCreate, roles RoleSource, requireAdmin bool) bool {
	if i == nil || i.GuildID == "" || i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if roles == nil {
		return false
	}

	if memberHasConfiguredRole(i.Member, roles, i.GuildID, guildconfig.KeyAdminRole) {
		return true
	}
	if requireAdmin {
		return false
	}
	return memberHasConfiguredRole(i.Member, roles, i.GuildID, guildconfig.KeyModRole)
}

func memberHasConfiguredRole(m *discordgo.Member, roles RoleSource, guildID string, key guildconfig.Key) bool {
	value, ok := roles.GetValue(key, guildID)
	if !ok {
		return false
	}
	for _, id := range m.Roles {
		if value.HasID(id) {
			return true
		}
	}
	return false
}

// RequireMod allows members with mod or admin permissions.
func RequireMod(roles RoleSource) PermissionFunc {
	return func(i *discordgo.InteractionCreate) bool {
		return HasModPermissions(i, roles, false)
	}
}

// RequireAdmin allows members with admin permissions.
func RequireAdmin(roles RoleSource) PermissionFunc {
	return func(i *discordgo.InteractionCreate) bool {
		return HasModPermissions(i, roles, true)
	}
}

// Administrator allows only members with the Administrator permission.
func Administrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
