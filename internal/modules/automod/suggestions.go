package automod

import (
	"context"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

// suggestionVotes lists the vote reactions in order. A guild emoji with
// the given name replaces the fallback.
var suggestionVotes = []struct {
	name     string
	fallback string
}{
	{"VoteAgree", "👍"},
	{"VoteDisagree", "👎"},
	{"VoteDuplicate", "📓"},
}

func (m *AutomodModule) handleThreadCreate(_ *discordgo.Session, e *discordgo.ThreadCreate) {
	if !e.NewlyCreated {
		return
	}
	m.reactToSuggestion(context.Background(), e.Channel)
}

// reactToSuggestion adds the vote reactions to the starter message of a
// new post in the suggestion forum.
func (m *AutomodModule) reactToSuggestion(ctx context.Context, thread *discordgo.Channel) {
	if thread == nil || thread.GuildID == "" || thread.ParentID == "" {
		return
	}
	if !slices.Contains(m.ids(guildconfig.KeySuggestionChannel, thread.GuildID), thread.ParentID) {
		return
	}

	logger := slog.With("guild_id", thread.GuildID, "thread_id", thread.ID)

	emojis, err := m.discord.GuildEmojis(thread.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		logger.Debug("failed to fetch guild emojis, using defaults", "error", err)
	}

	// The starter message of a forum post shares the thread id.
	for _, vote := range suggestionVotes {
		emoji := vote.fallback
		if custom := findEmoji(emojis, vote.name); custom != nil {
			emoji = custom.APIName()
		}
		if err := m.discord.MessageReactionAdd(thread.ID, thread.ID, emoji, discordgo.WithContext(ctx)); err != nil {
			logger.Warn("failed to add suggestion reaction", "emoji", emoji, "error", err)
			return
		}
	}
}

func findEmoji(emojis []*discordgo.Emoji, name string) *discordgo.Emoji {
	for _, e := range emojis {
		if e.Name == name {
			return e
		}
	}
	return nil
}
