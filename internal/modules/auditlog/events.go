package auditlog

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

func channelLabel(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return "Text channel"
	case discordgo.ChannelTypeGuildVoice:
		return "Voice channel"
	case discordgo.ChannelTypeGuildCategory:
		return "Category"
	default:
		return ""
	}
}

func userFooter(u *discordgo.User, prefix string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: prefix + u.String(), IconURL: u.AvatarURL("")}
}

func (m *AuditLogModule) handleGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e.Guild == nil {
		return
	}
	m.roles.seed(e.ID, e.Roles)
}

func (m *AuditLogModule) handleGuildDelete(_ *discordgo.Session, e *discordgo.GuildDelete) {
	if e.Guild == nil {
		return
	}
	m.roles.drop(e.ID)
}

func (m *AuditLogModule) handleChannelCreate(_ *discordgo.Session, e *discordgo.ChannelCreate) {
	if e.Channel == nil {
		return
	}
	label := channelLabel(e.Type)
	if label == "" {
		return
	}
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       "**" + label + " created**",
		Description: e.Mention(),
		Color:       colorCreated,
	})
}

func (m *AuditLogModule) handleChannelDelete(_ *discordgo.Session, e *discordgo.ChannelDelete) {
	if e.Channel == nil {
		return
	}
	label := channelLabel(e.Type)
	if label == "" {
		return
	}
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       "**" + label + " deleted**",
		Description: e.Name,
		Color:       colorDeleted,
	})
}

func (m *AuditLogModule) handleRoleCreate(_ *discordgo.Session, e *discordgo.GuildRoleCreate) {
	if e.GuildRole == nil || e.Role == nil {
		return
	}
	m.roles.set(e.GuildID, e.Role)
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       "**Role created**",
		Description: "A new role has been created.",
		Color:       colorCreated,
	})
}

func (m *AuditLogModule) handleRoleUpdate(_ *discordgo.Session, e *discordgo.GuildRoleUpdate) {
	if e.GuildRole == nil || e.Role == nil {
		return
	}
	previous, ok := m.roles.set(e.GuildID, e.Role)
	if !ok || previous == e.Role.Name {
		return
	}
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       "**Role name updated**",
		Description: previous + " → " + e.Role.Name,
		Color:       colorChanged,
	})
}

func (m *AuditLogModule) handleRoleDelete(_ *discordgo.Session, e *discordgo.GuildRoleDelete) {
	name, ok := m.roles.remove(e.GuildID, e.RoleID)
	if !ok {
		name = e.RoleID
	}
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       "**Role removed**",
		Description: name,
		Color:       colorDeleted,
	})
}

func (m *AuditLogModule) channelTitle(action, channelID string) string {
	name := m.channelName(channelID)
	if name == "" {
		name = channelID
	}
	return "**Message " + action + " in #" + name + "**"
}

// handleMessageUpdate logs edits of messages still held in state.
func (m *AuditLogModule) handleMessageUpdate(_ *discordgo.Session, e *discordgo.MessageUpdate) {
	before := e.BeforeUpdate
	if e.Message == nil || before == nil || before.Author == nil || before.Author.Bot {
		return
	}
	if before.Content == e.Content {
		return
	}
	m.send(e.GuildID, &discordgo.MessageEmbed{
		Title:       m.channelTitle("edited", e.ChannelID),
		Description: before.Content + " → " + e.Content,
		Footer:      userFooter(before.Author, ""),
		Color:       colorChanged,
	})
}

// handleMessageDelete logs deletions of messages still held in state.
func (m *AuditLogModule) handleMessageDelete(_ *discordgo.Session, e *discordgo.MessageDelete) {
	before := e.BeforeDelete
	if before == nil || before.Author == nil || before.Author.Bot || before.Content == "" {
		return
	}
	m.send(before.GuildID, &discordgo.MessageEmbed{
		Title:       m.channelTitle("deleted", before.ChannelID),
		Description: before.Content,
		Footer:      userFooter(before.Author, "Wrote by "),
		Color:       colorDeleted,
	})
}

func nickname(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	return member.User.Username
}

// handleMemberUpdate logs a nickname change, or else every role the
// member gained or lost.
func (m *AuditLogModule) handleMemberUpdate(_ *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	before := e.BeforeUpdate
	if e.Member == nil || e.User == nil || before == nil || before.User == nil {
		return
	}

	if before.Nick != e.Nick {
		m.send(e.GuildID, &discordgo.MessageEmbed{
			Title:       "**Nickname changed**",
			Description: nickname(before) + " → " + nickname(e.Member),
			Footer:      userFooter(e.User, ""),
			Color:       colorChanged,
		})
		return
	}

	for _, id := range e.Roles {
		if !slices.Contains(before.Roles, id) {
			m.send(e.GuildID, roleChangeEmbed("added", id, e.User, colorCreated))
		}
	}
	for _, id := range before.Roles {
		if !slices.Contains(e.Roles, id) {
			m.send(e.GuildID, roleChangeEmbed("removed", id, e.User, colorDeleted))
		}
	}
}

func roleChangeEmbed(action, roleID string, u *discordgo.User, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "**Role " + action + "**",
		Description: "<@&" + roleID + ">",
		Footer:      userFooter(u, ""),
		Color:       color,
	}
}
