package anilist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/bot/bottest"
	"github.com/moyogii/sparrowbot/internal/storage"
)

type fakeSearcher struct {
	media   *Media
	user    *User
	err     error
	queries []string
}

func (f *fakeSearcher) SearchAnime(ctx context.Context, name string) (*Media, error) {
	f.queries = append(f.queries, "anime:"+name)
	return f.media, f.err
}

func (f *fakeSearcher) SearchManga(ctx context.Context, name string) (*Media, error) {
	f.queries = append(f.queries, "manga:"+name)
	return f.media, f.err
}

func (f *fakeSearcher) User(ctx context.Context, name string) (*User, error) {
	f.queries = append(f.queries, "user:"+name)
	return f.user, f.err
}

type fakeTitles struct {
	rows      []storage.Media
	mediaType string
	limit     int
}

func (f *fakeTitles) Search(ctx context.Context, mediaType, query string, limit int) ([]storage.Media, error) {
	f.mediaType = mediaType
	f.limit = limit
	return f.rows, nil
}

type fakeChannels struct{ nsfw bool }

func (f fakeChannels) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: channelID, NSFW: f.nsfw}, nil
}

func anilistInteraction(t *testing.T, kind, name string) *discordgo.InteractionCreate {
	in := bottest.Command("anilist", "g1")
	in.ChannelID = "c1"
	in.Options = []bottest.Option{
		{Name: "type", Type: discordgo.ApplicationCommandOptionString, Value: kind},
		{Name: "name", Type: discordgo.ApplicationCommandOptionString, Value: name},
	}
	return in.Build(t)
}

func editedContent(t *testing.T, r *bot.MockResponder) string {
	t.Helper()
	if r.LastEdit == nil || r.LastEdit.Content == nil {
		t.Fatal("expected content edit")
	}
	return *r.LastEdit.Content
}

func TestHandleAnilist_Anime(t *testing.T) {
	media := &Media{Status: "FINISHED"}
	media.Title.English = "Cowboy Bebop"
	searcher := &fakeSearcher{media: media}
	m := &AnilistModule{api: searcher, channels: fakeChannels{}}
	responder := &bot.MockResponder{}

	if err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "anime", "bebop"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if responder.LastResponse().Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Error("expected deferred response")
	}
	if responder.LastEdit == nil || responder.LastEdit.Embeds == nil {
		t.Fatal("expected embed edit")
	}
	if got := (*responder.LastEdit.Embeds)[0].Title; got != "Cowboy Bebop" {
		t.Errorf("expected title, got %q", got)
	}
	if searcher.queries[0] != "anime:bebop" {
		t.Errorf("unexpected query %q", searcher.queries[0])
	}
}

func TestHandleAnilist_AdultOutsideNSFWChannel(t *testing.T) {
	searcher := &fakeSearcher{media: &Media{IsAdult: true}}
	m := &AnilistModule{api: searcher, channels: fakeChannels{nsfw: false}}
	responder := &bot.MockResponder{}

	if err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "manga", "x"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "This manga is NSFW, but you are not in a NSFW channel. Please try again in a NSFW channel!"
	if got := editedContent(t, responder); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHandleAnilist_AdultInNSFWChannel(t *testing.T) {
	searcher := &fakeSearcher{media: &Media{IsAdult: true}}
	m := &AnilistModule{api: searcher, channels: fakeChannels{nsfw: true}}
	responder := &bot.MockResponder{}

	if err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "manga", "x"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responder.LastEdit == nil || responder.LastEdit.Embeds == nil {
		t.Fatal("expected embed edit")
	}
}

func TestHandleAnilist_NotFound(t *testing.T) {
	m := &AnilistModule{api: &fakeSearcher{err: ErrNotFound}}
	responder := &bot.MockResponder{}

	if err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "user", "ghost"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := editedContent(t, responder); got != "No results were found for **ghost**. :x:" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestHandleAnilist_Placeholder(t *testing.T) {
	searcher := &fakeSearcher{}
	m := &AnilistModule{api: searcher}
	responder := &bot.MockResponder{}

	if err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "anime", "N/A"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(searcher.queries) != 0 {
		t.Errorf("expected no lookup, got %v", searcher.queries)
	}
	resp := responder.LastResponse()
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Error("expected ephemeral reply")
	}
}

func TestHandleAnilist_RequestError(t *testing.T) {
	boom := errors.New("boom")
	m := &AnilistModule{api: &fakeSearcher{err: boom}}
	responder := &bot.MockResponder{}

	err := m.handleAnilist(context.Background(), nil, anilistInteraction(t, "anime", "x"), responder)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if got := editedContent(t, responder); !strings.Contains(got, "Unable to reach AniList") {
		t.Errorf("unexpected content %q", got)
	}
}

func TestSearchTerm(t *testing.T) {
	cases := []struct {
		input, kind, want string
	}{
		{"Cowboy Bebop", "anime", "Cowboy Bebop"},
		{"  padded ", "anime", "padded"},
		{"https://anilist.co/user/sparrow/", "user", "sparrow"},
		{"https://anilist.co/anime/1/Cowboy-Bebop/", "anime", "Cowboy Bebop"},
		{"https://anilist.co/manga/30002/Berserk", "manga", "Berserk"},
		{"https://anilist.co/anime", "anime", "https://anilist.co/anime"},
	}

	for _, c := range cases {
		if got := searchTerm(c.input, c.kind); got != c.want {
			t.Errorf("searchTerm(%q, %q) = %q, want %q", c.input, c.kind, got, c.want)
		}
	}
}

func autocompleteInteraction(t *testing.T, kind, typed string) *discordgo.InteractionCreate {
	in := bottest.Command("anilist", "g1")
	in.Type = discordgo.InteractionApplicationCommandAutocomplete
	in.Options = []bottest.Option{
		{Name: "type", Type: discordgo.ApplicationCommandOptionString, Value: kind},
		{Name: "name", Type: discordgo.ApplicationCommandOptionString, Value: typed, Focused: true},
	}
	return in.Build(t)
}

func TestHandleAutocomplete(t *testing.T) {
	titles := &fakeTitles{rows: []storage.Media{
		{Name: "Cowboy Bebop"},
		{Name: "N/A", AltName: "Kaubōi Bibappu"},
	}}
	m := &AnilistModule{titles: titles}
	responder := &bot.MockResponder{}

	if err := m.handleAutocomplete(context.Background(), nil, autocompleteInteraction(t, "anime", "cow"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := responder.LastResponse()
	if resp.Type != discordgo.InteractionApplicationCommandAutocompleteResult {
		t.Fatalf("expected autocomplete result, got %d", resp.Type)
	}
	if titles.mediaType != storage.MediaAnime || titles.limit != maxChoices {
		t.Errorf("unexpected search args %q %d", titles.mediaType, titles.limit)
	}
	choices := resp.Data.Choices
	if len(choices) != 2 || choices[0].Name != "Cowboy Bebop" || choices[1].Name != "Kaubōi Bibappu" {
		t.Errorf("unexpected choices %+v", choices)
	}
}

func TestHandleAutocomplete_UserType(t *testing.T) {
	titles := &fakeTitles{}
	m := &AnilistModule{titles: titles}
	responder := &bot.MockResponder{}

	if err := m.handleAutocomplete(context.Background(), nil, autocompleteInteraction(t, "user", "spa"), responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if titles.mediaType != "" {
		t.Error("expected no title search for users")
	}
	if n := len(responder.LastResponse().Data.Choices); n != 0 {
		t.Errorf("expected no choices, got %d", n)
	}
}

func TestTitleChoices(t *testing.T) {
	empty := titleChoices(nil)
	if len(empty) != 1 || empty[0].Name != noResultsChoice || empty[0].Value != placeholder {
		t.Errorf("unexpected empty choices %+v", empty)
	}

	rows := make([]storage.Media, 30)
	for i := range rows {
		rows[i].Name = strings.Repeat("x", 120)
	}
	choices := titleChoices(rows)
	if len(choices) != maxChoices {
		t.Errorf("expected %d choices, got %d", maxChoices, len(choices))
	}
	if n := len([]rune(choices[0].Name)); n != maxChoiceText {
		t.Errorf("expected %d rune name, got %d", maxChoiceText, n)
	}
}
