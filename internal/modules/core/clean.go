package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

// bulkDeleteMaxAge is the oldest message age Discord accepts for bulk deletion.
const bulkDeleteMaxAge = 14 * 24 * time.Hour

const (
	invalidAmountMessage = "Please enter a valid number that is not greater than 100 or less than 1!"
	noMemberMessages     = "No messages have been found for that member."
	tooOldMessage        = "You can only bulk delete messages that are under 14 days old."
)

func (m *CoreModule) handleClean(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)

	amount, ok := opts.Int("amount")
	if !ok || amount < 1 || amount > int64(maxClean) {
		return bot.RespondContent(r, invalidAmountMessage, true)
	}

	messages, err := m.discord.ChannelMessages(i.ChannelID, int(amount), "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	userID := opts.ID("user")
	if userID != "" {
		messages = filterAuthor(messages, userID)
		if len(messages) == 0 {
			return bot.RespondContent(r, noMemberMessages, true)
		}
	}

	ids := deletableIDs(messages, time.Now())
	if len(ids) == 0 {
		return bot.RespondContent(r, tooOldMessage, true)
	}

	if len(ids) == 1 {
		err = m.discord.ChannelMessageDelete(i.ChannelID, ids[0], discordgo.WithContext(ctx))
	} else {
		err = m.discord.ChannelMessagesBulkDelete(i.ChannelID, ids, discordgo.WithContext(ctx))
	}
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}

	return bot.RespondContent(r, fmt.Sprintf("%d messages have been deleted!", len(ids)), true)
}

func filterAuthor(messages []*discordgo.Message, userID string) []*discordgo.Message {
	result := make([]*discordgo.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Author != nil && msg.Author.ID == userID {
			result = append(result, msg)
		}
	}
	return result
}

// deletableIDs returns the ids of messages young enough to be bulk deleted.
func deletableIDs(messages []*discordgo.Message, now time.Time) []string {
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		if now.Sub(msg.Timestamp) >= bulkDeleteMaxAge {
			continue
		}
		ids = append(ids, msg.ID)
	}
	return ids
}
