package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

type nopRepository struct{}

func (nopRepository) LoadAll(ctx context.Context) ([]guildconfig.Record, error) { return nil, nil }
func (nopRepository) Save(ctx context.Context, rec guildconfig.Record) error    { return nil }
func (nopRepository) Delete(ctx context.Context, guildID string) error         { return nil }

type fakeDiscord struct {
	embeds map[string][]*discordgo.MessageEmbed
	err    error
}

func (f *fakeDiscord) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.embeds[channelID] = append(f.embeds[channelID], embed)
	return &discordgo.Message{}, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newModule sets up guild g1 logging to "logs" and guild g2 without a log
// channel.
func newModule(t *testing.T) (*AuditLogModule, *fakeDiscord) {
	t.Helper()
	ctx := context.Background()
	store := guildconfig.NewStore(nopRepository{})
	for _, id := range []string{"g1", "g2"} {
		if err := store.AddGuild(ctx, id, true, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.Set(ctx, guildconfig.KeyLogChannel, guildconfig.IDs("logs"), "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	discord := &fakeDiscord{embeds: make(map[string][]*discordgo.MessageEmbed)}
	m := New()
	m.discord = discord
	m.settings = store
	m.now = func() time.Time { return fixedNow }
	m.channelName = func(channelID string) string {
		if channelID == "c1" {
			return "general"
		}
		return ""
	}
	return m, discord
}

func titles(embeds []*discordgo.MessageEmbed) []string {
	var result []string
	for _, e := range embeds {
		result = append(result, e.Title+" | "+e.Description)
	}
	return result
}

func TestChannelEvents(t *testing.T) {
	m, discord := newModule(t)

	m.handleChannelCreate(nil, &discordgo.ChannelCreate{Channel: &discordgo.Channel{ID: "c9", GuildID: "g1", Name: "memes", Type: discordgo.ChannelTypeGuildText}})
	m.handleChannelCreate(nil, &discordgo.ChannelCreate{Channel: &discordgo.Channel{ID: "t1", GuildID: "g1", Type: discordgo.ChannelTypeGuildPublicThread}})
	m.handleChannelDelete(nil, &discordgo.ChannelDelete{Channel: &discordgo.Channel{ID: "v1", GuildID: "g1", Name: "Lounge", Type: discordgo.ChannelTypeGuildVoice}})
	m.handleChannelDelete(nil, &discordgo.ChannelDelete{Channel: &discordgo.Channel{ID: "k1", GuildID: "g2", Name: "Info", Type: discordgo.ChannelTypeGuildCategory}})

	want := []string{
		"**Text channel created** | <#c9>",
		"**Voice channel deleted** | Lounge",
	}
	if diff := cmp.Diff(want, titles(discord.embeds["logs"])); diff != "" {
		t.Errorf("logged entries mismatch (-want +got):\n%s", diff)
	}

	first := discord.embeds["logs"][0]
	if first.Color != colorCreated || first.Footer.Text != "SparrowBot" || first.Timestamp != fixedNow.Format(time.RFC3339) {
		t.Errorf("unexpected embed %+v", first)
	}
}

func TestRoleEvents(t *testing.T) {
	m, discord := newModule(t)
	m.handleGuildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{ID: "g1", Roles: []*discordgo.Role{{ID: "r1", Name: "Member"}}}})

	m.handleRoleUpdate(nil, &discordgo.GuildRoleUpdate{GuildRole: &discordgo.GuildRole{GuildID: "g1", Role: &discordgo.Role{ID: "r1", Name: "Member", Color: 5}}})
	m.handleRoleUpdate(nil, &discordgo.GuildRoleUpdate{GuildRole: &discordgo.GuildRole{GuildID: "g1", Role: &discordgo.Role{ID: "r1", Name: "Regular"}}})
	m.handleRoleCreate(nil, &discordgo.GuildRoleCreate{GuildRole: &discordgo.GuildRole{GuildID: "g1", Role: &discordgo.Role{ID: "r2", Name: "new role"}}})
	m.handleRoleDelete(nil, &discordgo.GuildRoleDelete{GuildID: "g1", RoleID: "r1"})
	m.handleRoleDelete(nil, &discordgo.GuildRoleDelete{GuildID: "g1", RoleID: "r404"})

	want := []string{
		"**Role name updated** | Member → Regular",
		"**Role created** | A new role has been created.",
		"**Role removed** | Regular",
		"**Role removed** | r404",
	}
	if diff := cmp.Diff(want, titles(discord.embeds["logs"])); diff != "" {
		t.Errorf("logged entries mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageEvents(t *testing.T) {
	m, discord := newModule(t)
	author := &discordgo.User{ID: "u1", Username: "sparrow"}
	bot := &discordgo.User{ID: "b1", Username: "robot", Bot: true}
	cached := func(content string, u *discordgo.User) *discordgo.Message {
		return &discordgo.Message{ID: "m1", GuildID: "g1", ChannelID: "c1", Content: content, Author: u}
	}
	updated := &discordgo.Message{ID: "m1", GuildID: "g1", ChannelID: "c1", Content: "hello there", Author: author}

	m.handleMessageUpdate(nil, &discordgo.MessageUpdate{Message: updated, BeforeUpdate: cached("hello", author)})
	m.handleMessageUpdate(nil, &discordgo.MessageUpdate{Message: updated, BeforeUpdate: cached("hello there", author)})
	m.handleMessageUpdate(nil, &discordgo.MessageUpdate{Message: updated, BeforeUpdate: cached("beep", bot)})
	m.handleMessageUpdate(nil, &discordgo.MessageUpdate{Message: updated})
	m.handleMessageDelete(nil, &discordgo.MessageDelete{Message: &discordgo.Message{ID: "m1"}, BeforeDelete: cached("bye", author)})
	m.handleMessageDelete(nil, &discordgo.MessageDelete{Message: &discordgo.Message{ID: "m2"}, BeforeDelete: cached("", author)})
	m.handleMessageDelete(nil, &discordgo.MessageDelete{Message: &discordgo.Message{ID: "m3"}})

	want := []string{
		"**Message edited in #general** | hello → hello there",
		"**Message deleted in #general** | bye",
	}
	embeds := discord.embeds["logs"]
	if diff := cmp.Diff(want, titles(embeds)); diff != "" {
		t.Fatalf("logged entries mismatch (-want +got):\n%s", diff)
	}
	if embeds[0].Footer.Text != "sparrow" || embeds[1].Footer.Text != "Wrote by sparrow" {
		t.Errorf("unexpected footers %q %q", embeds[0].Footer.Text, embeds[1].Footer.Text)
	}
}

func TestMemberUpdate(t *testing.T) {
	m, discord := newModule(t)
	user := &discordgo.User{ID: "u1", Username: "sparrow"}

	m.handleMemberUpdate(nil, &discordgo.GuildMemberUpdate{
		Member:       &discordgo.Member{GuildID: "g1", User: user, Nick: "Jack", Roles: []string{"r1"}},
		BeforeUpdate: &discordgo.Member{GuildID: "g1", User: user, Roles: []string{"r1"}},
	})
	m.handleMemberUpdate(nil, &discordgo.GuildMemberUpdate{
		Member:       &discordgo.Member{GuildID: "g1", User: user, Nick: "Jack", Roles: []string{"r1", "r3"}},
		BeforeUpdate: &discordgo.Member{GuildID: "g1", User: user, Nick: "Jack", Roles: []string{"r1", "r2"}},
	})
	m.handleMemberUpdate(nil, &discordgo.GuildMemberUpdate{
		Member: &discordgo.Member{GuildID: "g1", User: user, Nick: "Other"},
	})

	want := []string{
		"**Nickname changed** | sparrow → Jack",
		"**Role added** | <@&r3>",
		"**Role removed** | <@&r2>",
	}
	if diff := cmp.Diff(want, titles(discord.embeds["logs"])); diff != "" {
		t.Errorf("logged entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSend_FailureIsSwallowed(t *testing.T) {
	m, discord := newModule(t)
	discord.err = errors.New("missing access")

	m.handleRoleCreate(nil, &discordgo.GuildRoleCreate{GuildRole: &discordgo.GuildRole{GuildID: "g1", Role: &discordgo.Role{ID: "r1"}}})

	if len(discord.embeds) != 0 {
		t.Errorf("expected nothing recorded, got %v", discord.embeds)
	}
}
