package osu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type nopRepository struct{}

func (nopRepository) LoadAll(ctx context.Context) ([]guildconfig.Record, error) { return nil, nil }
func (nopRepository) Save(ctx context.Context, rec guildconfig.Record) error    { return nil }
func (nopRepository) Delete(ctx context.Context, guildID string) error         { return nil }

type fakePoster struct {
	mu   sync.Mutex
	sent map[string][]*discordgo.MessageEmbed
}

func (f *fakePoster) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[string][]*discordgo.MessageEmbed)
	}
	f.sent[channelID] = append(f.sent[channelID], embed)
	return &discordgo.Message{}, nil
}

var trackNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *guildconfig.Store, *fakeOsu, *fakePoster) {
	t.Helper()
	backend, server := newTestBackend(t)

	store := guildconfig.NewStore(nopRepository{})
	if err := store.AddGuild(context.Background(), "g1", true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	creds := &clientcredentials.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     server.URL + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	poster := &fakePoster{}
	tracker := NewTracker(NewAPI(server.URL+"/api/v2", server.Client()), creds.TokenSource(context.Background()), store, poster)
	tracker.now = func() time.Time { return trackNow }
	tracker.pause = 0
	return tracker, store, backend, poster
}

func TestTracker_TrackAndUntrack(t *testing.T) {
	tracker, store, _, _ := newTestTracker(t)
	ctx := context.Background()

	if err := tracker.Track(ctx, "g1", "Cookiezi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tracker.Track(ctx, "g1", "cookiezi"); !errors.Is(err, ErrAlreadyTracked) {
		t.Errorf("expected ErrAlreadyTracked, got %v", err)
	}
	if diff := cmp.Diff([]string{"cookiezi"}, trackedPlayers(store, "g1")); diff != "" {
		t.Errorf("tracked players mismatch (-want +got):\n%s", diff)
	}

	if err := tracker.Untrack(ctx, "g1", "COOKIEZI"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tracker.Untrack(ctx, "g1", "cookiezi"); !errors.Is(err, ErrNotTracked) {
		t.Errorf("expected ErrNotTracked, got %v", err)
	}
	if got := trackedPlayers(store, "g1"); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestTracker_TrackLimit(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	for n := range TrackLimit {
		if err := tracker.Track(ctx, "g1", fmt.Sprintf("player%d", n)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := tracker.Track(ctx, "g1", "onemore"); !errors.Is(err, ErrTrackLimit) {
		t.Errorf("expected ErrTrackLimit, got %v", err)
	}
}

func TestTrackedPlayers_LegacyObjectDefault(t *testing.T) {
	_, store, _, _ := newTestTracker(t)
	if err := store.Set(context.Background(), guildconfig.KeyOsuTrackedPlayers, guildconfig.Text("{}"), "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := trackedPlayers(store, "g1"); got != nil {
		t.Errorf("expected no players, got %v", got)
	}
}

func TestTracker_Resolve(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx := context.Background()

	user, err := tracker.Resolve(ctx, "cookiezi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "cookiezi" {
		t.Errorf("expected cookiezi, got %q", user.Username)
	}

	if _, err := tracker.Resolve(ctx, "missing"); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func trackedScore(age time.Duration, mods ...string) Score {
	score := Score{
		Mods:      mods,
		Score:     1234567,
		Accuracy:  0.9876,
		MaxCombo:  500,
		PP:        727,
		Rank:      "S",
		CreatedAt: trackNow.Add(-age),
		Beatmap:   Beatmap{ID: 456, Version: "Insane", TotalLength: 200},
	}
	score.Beatmapset.Title = "Blue Zenith"
	return score
}

func TestTracker_PollPostsRecentTopPlays(t *testing.T) {
	tracker, store, backend, poster := newTestTracker(t)
	ctx := context.Background()
	_ = store.Set(ctx, guildconfig.KeyOsuTrackChannel, guildconfig.IDs("c1"), "g1")
	_ = tracker.Track(ctx, "g1", "cookiezi")
	backend.setScores(ScoresBest, trackedScore(time.Hour), trackedScore(time.Minute, "HD"))

	tracker.Poll(ctx)

	sent := poster.sent["c1"]
	if len(sent) != 1 {
		t.Fatalf("expected one posted play, got %d", len(sent))
	}
	embed := sent[0]
	if !strings.Contains(embed.Description, "Personal Best: #2") {
		t.Errorf("expected personal best rank in %q", embed.Description)
	}
	if !strings.Contains(embed.Description, "**☆6.00**") {
		t.Errorf("expected mod adjusted stars in %q", embed.Description)
	}
	if embed.Timestamp == "" || embed.Footer != nil {
		t.Error("expected a timestamp instead of a played-ago footer")
	}
	if diff := cmp.Diff([][]string{{"HD"}}, backend.attrMods); diff != "" {
		t.Errorf("attribute mods mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_PollSkipsGuildWithoutChannel(t *testing.T) {
	tracker, _, backend, poster := newTestTracker(t)
	ctx := context.Background()
	_ = tracker.Track(ctx, "g1", "cookiezi")
	backend.setScores(ScoresBest, trackedScore(time.Minute))

	tracker.Poll(ctx)

	if len(poster.sent) != 0 {
		t.Errorf("expected nothing posted, got %v", poster.sent)
	}
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	tracker, _, _, _ := newTestTracker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		tracker.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
}
