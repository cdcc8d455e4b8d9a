package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

func (m *CoreModule) handleDeleteCommand(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	name := opts.String("command")
	guildID := opts.String("guild")

	if err := bot.Defer(r, true); err != nil {
		return err
	}

	deleted, err := m.commands.Delete(ctx, name, guildID)
	if err != nil {
		return fmt.Errorf("failed to delete command %s: %w", name, err)
	}

	if deleted == 0 {
		return bot.EditContent(r, fmt.Sprintf("No command named **%s** was found.", name))
	}
	return bot.EditContent(r, fmt.Sprintf("Successfully deleted the **%s** command.", name))
}
