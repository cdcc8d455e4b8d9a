package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

const (
	colorSetupDone    = 0x00d166
	colorAlreadySetup = 0xf93a2f
)

const (
	alreadySetupMessage = "The bot has already been setup in this Discord server. " +
		"Pass the override argument to setup the bot again."
	setupDoneMessage = "SparrowBot has now been successfully setup, you are now free to use any of the commands provided. " +
		"You can type / in the chat box, and click on SparrowBot to view all of the commands."
)

func (m *CoreModule) handleSetup(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)

	if err := m.ensureGuild(ctx, i.GuildID); err != nil {
		return err
	}

	if m.config.IsGuildSetup(i.GuildID) && !opts.Bool("override") {
		return bot.RespondEmbed(r, setupEmbed(alreadySetupMessage, colorAlreadySetup), false)
	}

	err := m.config.CreateDefaultConfig(ctx, i.GuildID, opts.ID("modrole"), opts.ID("adminrole"))
	if err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	return bot.RespondEmbed(r, setupEmbed(setupDoneMessage, colorSetupDone), false)
}

// ensureGuild creates the guild records when the join event was missed.
func (m *CoreModule) ensureGuild(ctx context.Context, guildID string) error {
	if m.config.HasGuild(guildID) {
		return nil
	}

	exists, err := m.guilds.Exists(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to look up guild: %w", err)
	}
	if !exists {
		if err := m.guilds.Create(ctx, guildID, "", ""); err != nil {
			return fmt.Errorf("failed to create guild: %w", err)
		}
	}

	return m.config.AddGuild(ctx, guildID, false, false)
}

func setupEmbed(description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       color,
		Footer:      bot.Footer(),
		Timestamp:   bot.Timestamp(time.Now()),
	}
}
