package automod

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

type nopRepository struct{}

func (nopRepository) LoadAll(ctx context.Context) ([]guildconfig.Record, error) { return nil, nil }
func (nopRepository) Save(ctx context.Context, rec guildconfig.Record) error    { return nil }
func (nopRepository) Delete(ctx context.Context, guildID string) error         { return nil }

type fakeDiscord struct {
	deleted   []string
	dms       []string
	roleAdds  []string
	reactions []string
	emojis    []*discordgo.Emoji
	dmErr     error
}

func (f *fakeDiscord) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeDiscord) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	f.dms = append(f.dms, channelID+":"+content)
	return &discordgo.Message{}, nil
}

func (f *fakeDiscord) UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID}, nil
}

func (f *fakeDiscord) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.roleAdds = append(f.roleAdds, userID+":"+roleID)
	return nil
}

func (f *fakeDiscord) GuildEmojis(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Emoji, error) {
	return f.emojis, nil
}

func (f *fakeDiscord) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	f.reactions = append(f.reactions, emojiID)
	return nil
}

func newModule(t *testing.T, values map[guildconfig.Key]guildconfig.Value) (*AutomodModule, *fakeDiscord) {
	t.Helper()
	ctx := context.Background()
	store := guildconfig.NewStore(nopRepository{})
	if err := store.AddGuild(ctx, "g1", true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for key, value := range values {
		if err := store.Set(ctx, key, value, "g1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	discord := &fakeDiscord{}
	return &AutomodModule{
		discord:  discord,
		settings: store,
		selfID:   func() string { return "bot" },
	}, discord
}

func linkMessage(content, channelID string, roles ...string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: "u1"},
		Member:    &discordgo.Member{Roles: roles},
	}
}

func TestContainsLink(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"https://example.com", true},
		{"check this http://example.com/path?q=1 out", true},
		{"HTTPS://EXAMPLE.ORG", true},
		{"http://localhost:8080", true},
		{"example.com", false},
		{"https://nodot", false},
		{"mailto:someone@example.com", false},
		{"just chatting", false},
	}

	for _, c := range cases {
		if got := containsLink(c.content); got != c.want {
			t.Errorf("containsLink(%q): expected %v, got %v", c.content, c.want, got)
		}
	}
}

func TestFilterLinks_DeletesAndWarns(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeyLinkFiltering: guildconfig.Bool(true),
	})

	m.filterLinks(context.Background(), linkMessage("https://example.com", "c1"))

	if diff := cmp.Diff([]string{"m1"}, discord.deleted); diff != "" {
		t.Errorf("deleted mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dm-u1:" + linkWarning}, discord.dms); diff != "" {
		t.Errorf("dm mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterLinks_Skips(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeyLinkFiltering:       guildconfig.Bool(true),
		guildconfig.KeyLinkFilterRoleWL:    guildconfig.IDs("trusted"),
		guildconfig.KeyLinkFilterChannelWL: guildconfig.IDs("links", "media"),
	})

	bot := linkMessage("https://example.com", "c1")
	bot.Author.Bot = true

	self := linkMessage("https://example.com", "c1")
	self.Author.ID = "bot"

	dm := linkMessage("https://example.com", "c1")
	dm.GuildID = ""

	cases := []struct {
		name string
		msg  *discordgo.Message
	}{
		{"no link", linkMessage("hello", "c1")},
		{"whitelisted role", linkMessage("https://example.com", "c1", "member", "trusted")},
		{"whitelisted channel", linkMessage("https://example.com", "media")},
		{"bot author", bot},
		{"own message", self},
		{"direct message", dm},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m.filterLinks(context.Background(), c.msg)
		})
	}
	if len(discord.deleted) != 0 {
		t.Errorf("expected nothing deleted, got %v", discord.deleted)
	}
}

func TestFilterLinks_Disabled(t *testing.T) {
	m, discord := newModule(t, nil)

	m.filterLinks(context.Background(), linkMessage("https://example.com", "c1"))

	if len(discord.deleted) != 0 {
		t.Errorf("expected nothing deleted, got %v", discord.deleted)
	}
}

func TestFilterLinks_ClosedDMs(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeyLinkFiltering: guildconfig.Bool(true),
	})
	discord.dmErr = errors.New("cannot send messages to this user")

	m.filterLinks(context.Background(), linkMessage("https://example.com", "c1"))

	if len(discord.deleted) != 1 {
		t.Errorf("expected message to be deleted, got %v", discord.deleted)
	}
}

func TestGrantMemberGateRole(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeyMemberGateRole: guildconfig.IDs("verified"),
	})
	user := &discordgo.User{ID: "u1"}

	cases := []struct {
		name           string
		before, after  bool
		wantRoleGrants int
	}{
		{"accepted rules", true, false, 1},
		{"still pending", true, true, 0},
		{"never pending", false, false, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			discord.roleAdds = nil
			m.grantMemberGateRole(context.Background(),
				&discordgo.Member{GuildID: "g1", User: user, Pending: c.before},
				&discordgo.Member{GuildID: "g1", User: user, Pending: c.after},
			)
			if len(discord.roleAdds) != c.wantRoleGrants {
				t.Errorf("expected %d role grants, got %v", c.wantRoleGrants, discord.roleAdds)
			}
		})
	}
}

func TestGrantMemberGateRole_NotConfigured(t *testing.T) {
	m, discord := newModule(t, nil)

	m.grantMemberGateRole(context.Background(),
		&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u1"}, Pending: true},
		&discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u1"}},
	)

	if len(discord.roleAdds) != 0 {
		t.Errorf("expected no role grants, got %v", discord.roleAdds)
	}
}

func TestReactToSuggestion(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeySuggestionChannel: guildconfig.IDs("forum"),
	})
	discord.emojis = []*discordgo.Emoji{{ID: "99", Name: "VoteAgree"}}

	m.reactToSuggestion(context.Background(), &discordgo.Channel{ID: "t1", GuildID: "g1", ParentID: "forum"})

	want := []string{"VoteAgree:99", "👎", "📓"}
	if diff := cmp.Diff(want, discord.reactions); diff != "" {
		t.Errorf("reactions mismatch (-want +got):\n%s", diff)
	}
}

func TestReactToSuggestion_OtherForum(t *testing.T) {
	m, discord := newModule(t, map[guildconfig.Key]guildconfig.Value{
		guildconfig.KeySuggestionChannel: guildconfig.IDs("forum"),
	})

	m.reactToSuggestion(context.Background(), &discordgo.Channel{ID: "t1", GuildID: "g1", ParentID: "general"})

	if len(discord.reactions) != 0 {
		t.Errorf("expected no reactions, got %v", discord.reactions)
	}
}
