package core

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const welcomeMessage = "Hey! :wave: Thank you for inviting SparrowBot to this Discord server! " +
	"You can setup SparrowBot by running /setup and providing a moderator role and admin role.\n\n" +
	"Setting up SparrowBot will allow you access to all commands within it and provides you access to all config options. " +
	"You can find all of the config options by typing /config help and you can set options by typing " +
	"/config set selecting an option then providing a value."

func (m *CoreModule) handleGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	m.onGuildJoined(context.Background(), e.Guild)
}

func (m *CoreModule) handleGuildDelete(_ *discordgo.Session, e *discordgo.GuildDelete) {
	m.onGuildLeft(context.Background(), e.Guild)
}

// onGuildJoined records a newly joined guild and greets its owner. Guilds
// that are already known are left untouched, since the gateway replays
// GuildCreate for every guild on connect.
func (m *CoreModule) onGuildJoined(ctx context.Context, g *discordgo.Guild) {
	if g == nil || m.config.HasGuild(g.ID) {
		return
	}

	logger := slog.With("guild_id", g.ID)

	if err := m.guilds.Create(ctx, g.ID, g.OwnerID, g.Name); err != nil {
		logger.Error("failed to create guild", "error", err)
		return
	}
	if err := m.config.AddGuild(ctx, g.ID, false, false); err != nil {
		logger.Error("failed to add guild config", "error", err)
		return
	}
	logger.Info("joined guild", "name", g.Name)

	if g.OwnerID == "" {
		return
	}
	channel, err := m.discord.UserChannelCreate(g.OwnerID, discordgo.WithContext(ctx))
	if err != nil {
		logger.Warn("failed to open DM with guild owner", "error", err)
		return
	}
	if _, err := m.discord.ChannelMessageSend(channel.ID, welcomeMessage, discordgo.WithContext(ctx)); err != nil {
		logger.Warn("failed to send welcome message", "error", err)
	}
}

// onGuildLeft removes the records of a guild the bot was removed from.
// Outages also produce GuildDelete, flagged as unavailable.
func (m *CoreModule) onGuildLeft(ctx context.Context, g *discordgo.Guild) {
	if g == nil || g.Unavailable {
		return
	}

	logger := slog.With("guild_id", g.ID)

	if err := m.guilds.Delete(ctx, g.ID); err != nil {
		logger.Error("failed to delete guild", "error", err)
		return
	}
	if err := m.config.RemoveGuild(ctx, g.ID); err != nil {
		logger.Error("failed to delete guild config", "error", err)
		return
	}
	logger.Info("left guild")
}

