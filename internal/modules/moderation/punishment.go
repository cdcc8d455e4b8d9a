package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

const colorPunishment = 0xf8c300

// Punishment names shown in the punishment log.
const (
	punishKicked         = "Kicked"
	punishBanned         = "Banned"
	punishUnbanned       = "Unbanned"
	punishTimedOut       = "Timed out"
	punishTimeoutRemoved = "Time out removed"
	punishWarned         = "Warned"
)

type punishment struct {
	guildID   string
	inflictor *discordgo.User
	target    *discordgo.User
	action    string
	reason    string
	minutes   int64
}

// logPunishment posts a punishment to the configured punishment channel.
// Failures are logged and never fail the command.
func (m *ModerationModule) logPunishment(ctx context.Context, p punishment) {
	channelID := m.punishChannel(p.guildID)
	if channelID == "" {
		return
	}

	_, err := m.discord.ChannelMessageSendEmbed(channelID, punishmentEmbed(p, m.now()), discordgo.WithContext(ctx))
	if err != nil {
		slog.Warn("failed to log punishment",
			"guild_id", p.guildID,
			"channel_id", channelID,
			"error", err,
		)
	}
}

func punishmentEmbed(p punishment, now time.Time) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** %s - (ID %s)\n", p.action, displayName(p.target), p.target.ID)
	if p.reason != "" {
		fmt.Fprintf(&b, "**Reason**: %s\n", p.reason)
	}
	if p.minutes > 0 {
		fmt.Fprintf(&b, "**Length:** %s", humanizeSeconds(p.minutes*60))
	}

	embed := &discordgo.MessageEmbed{
		Description: b.String(),
		Color:       colorPunishment,
		Footer:      bot.Footer(),
		Timestamp:   bot.Timestamp(now),
	}
	if p.inflictor != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("%s - (ID %s)", displayName(p.inflictor), p.inflictor.ID),
			IconURL: p.inflictor.AvatarURL(""),
		}
	}
	return embed
}

// humanizeSeconds renders a duration in its largest whole unit.
func humanizeSeconds(seconds int64) string {
	units := []struct {
		name   string
		length int64
	}{
		{"years", 31536000},
		{"months", 2592000},
		{"days", 86400},
		{"hours", 3600},
		{"minutes", 60},
	}
	for _, u := range units {
		if seconds > u.length {
			return fmt.Sprintf("%d %s", seconds/u.length, u.name)
		}
	}
	return fmt.Sprintf("%d seconds", seconds)
}

// displayName returns the username, with the discriminator for accounts
// that still have one.
func displayName(u *discordgo.User) string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}
