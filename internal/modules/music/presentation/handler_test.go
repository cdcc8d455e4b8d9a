package presentation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/bot/bottest"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
	"github.com/moyogii/sparrowbot/internal/modules/music/infrastructure"
)

// fakeBackend stands in for Lavalink and Discord.
type fakeBackend struct {
	online  bool
	tracks  []domain.Track
	inVoice snowflake.ID
	volume  int
}

func (f *fakeBackend) Play(context.Context, snowflake.ID, domain.Track) error { return nil }
func (f *fakeBackend) SetPaused(context.Context, snowflake.ID, bool) error    { return nil }
func (f *fakeBackend) SetVolume(_ context.Context, _ snowflake.ID, v int) error {
	f.volume = v
	return nil
}
func (f *fakeBackend) JoinChannel(context.Context, snowflake.ID, snowflake.ID) error { return nil }
func (f *fakeBackend) LeaveChannel(context.Context, snowflake.ID) error              { return nil }
func (f *fakeBackend) LoadTracks(context.Context, string) ([]domain.Track, error) {
	return f.tracks, nil
}
func (f *fakeBackend) Online() bool { return f.online }
func (f *fakeBackend) UserVoiceChannel(snowflake.ID, snowflake.ID) snowflake.ID {
	return f.inVoice
}
func (f *fakeBackend) DefaultVoiceChannel(snowflake.ID) snowflake.ID { return 0 }
func (f *fakeBackend) NowPlaying(context.Context, snowflake.ID, snowflake.ID, domain.Track) (snowflake.ID, error) {
	return 1, nil
}
func (f *fakeBackend) Send(context.Context, snowflake.ID, string) error { return nil }

func newHandler(backend *fakeBackend) *MusicHandler {
	svc := application.NewPlayerService(
		infrastructure.NewMemoryRepository(),
		backend, backend, backend, backend, backend, backend,
	)
	return NewMusicHandler(svc)
}

func music(t *testing.T, sub string, opts ...bottest.Option) *discordgo.InteractionCreate {
	in := bottest.Command("music", "100")
	in.ChannelID = "200"
	in.Options = []bottest.Option{{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand, Options: opts}}
	return in.Build(t)
}

func play(t *testing.T, query string) *discordgo.InteractionCreate {
	return music(t, "play", bottest.Option{Name: "song", Type: discordgo.ApplicationCommandOptionString, Value: query})
}

func run(t *testing.T, h *MusicHandler, i *discordgo.InteractionCreate) *bot.MockResponder {
	t.Helper()
	r := &bot.MockResponder{}
	if err := h.HandleMusic(context.Background(), nil, i, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func onlineBackend(titles ...string) *fakeBackend {
	backend := &fakeBackend{online: true, inVoice: 300}
	for _, title := range titles {
		backend.tracks = append(backend.tracks, domain.Track{Encoded: title, Title: title})
	}
	return backend
}

func content(t *testing.T, r *bot.MockResponder) string {
	t.Helper()
	resp := r.LastResponse()
	if resp == nil {
		t.Fatal("expected a response")
	}
	return resp.Data.Content
}

func TestHandleMusic_Offline(t *testing.T) {
	r := run(t, newHandler(&fakeBackend{}), play(t, "song"))

	if got := content(t, r); got != offlineMessage {
		t.Errorf("expected %q, got %q", offlineMessage, got)
	}
}

func TestHandleMusic_Play(t *testing.T) {
	r := run(t, newHandler(onlineBackend("Song A", "Song B")), play(t, "song"))

	if got := r.LastResponse().Type; got != discordgo.InteractionResponseDeferredChannelMessageWithSource {
		t.Errorf("expected a deferred response, got %d", got)
	}
	if r.LastEdit == nil || *r.LastEdit.Content != "Added Song A to the queue! :white_check_mark:" {
		t.Errorf("unexpected edit %+v", r.LastEdit)
	}
}

func TestHandleMusic_PlayPlaylist(t *testing.T) {
	r := run(t, newHandler(onlineBackend("a", "b", "c")), play(t, "https://open.spotify.com/playlist/1"))

	if want := "Added 3 songs to the queue! :white_check_mark:"; *r.LastEdit.Content != want {
		t.Errorf("expected %q, got %q", want, *r.LastEdit.Content)
	}
}

func TestHandleMusic_PlayNoChannel(t *testing.T) {
	backend := onlineBackend("a")
	backend.inVoice = 0

	r := run(t, newHandler(backend), play(t, "song"))

	if got := content(t, r); got != noChannelMessage {
		t.Errorf("expected %q, got %q", noChannelMessage, got)
	}
	if r.LastResponse().Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Error("expected an ephemeral reply")
	}
}

func TestHandleMusic_PlayNoTracks(t *testing.T) {
	r := run(t, newHandler(onlineBackend()), play(t, "nothing"))

	if *r.LastEdit.Content != noTrackMessage {
		t.Errorf("expected %q, got %q", noTrackMessage, *r.LastEdit.Content)
	}
}

func TestHandleMusic_NotConnected(t *testing.T) {
	for _, sub := range []string{"skip", "stop", "repeat", "list", "pause", "resume"} {
		t.Run(sub, func(t *testing.T) {
			r := run(t, newHandler(onlineBackend()), music(t, sub))
			if got := content(t, r); got != notConnectedMessage {
				t.Errorf("expected %q, got %q", notConnectedMessage, got)
			}
		})
	}
}

func TestHandleMusic_SkipAndStop(t *testing.T) {
	h := newHandler(onlineBackend("a"))
	run(t, h, play(t, "https://open.spotify.com/album/1"))

	r := run(t, h, music(t, "skip"))
	if got := content(t, r); got != queueDoneMessage {
		t.Errorf("expected %q, got %q", queueDoneMessage, got)
	}

	r = run(t, h, music(t, "stop"))
	if got := content(t, r); got != notConnectedMessage {
		t.Errorf("expected player to be gone after the queue ended, got %q", got)
	}
}

func TestHandleMusic_Volume(t *testing.T) {
	backend := onlineBackend("a")
	h := newHandler(backend)
	run(t, h, play(t, "song"))

	r := run(t, h, music(t, "volume", bottest.Option{Name: "amount", Type: discordgo.ApplicationCommandOptionInteger, Value: 40}))

	if want := "Music player volume has been changed to 40%! :white_check_mark:"; content(t, r) != want {
		t.Errorf("expected %q, got %q", want, content(t, r))
	}
	if backend.volume != 40 {
		t.Errorf("expected volume 40, got %d", backend.volume)
	}
}

func TestHandleMusic_List(t *testing.T) {
	h := newHandler(onlineBackend("a", "b", "c"))
	run(t, h, play(t, "https://open.spotify.com/album/1"))

	r := run(t, h, music(t, "list"))

	embeds := r.LastResponse().Data.Embeds
	if len(embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(embeds))
	}
	if embeds[0].Title != "Current Song Queue" {
		t.Errorf("unexpected title %q", embeds[0].Title)
	}
	if want := "1. b\n2. c\n"; embeds[0].Description != want {
		t.Errorf("expected %q, got %q", want, embeds[0].Description)
	}
}

func TestHandleMusic_ListTooLarge(t *testing.T) {
	titles := make([]string, 60)
	for n := range titles {
		titles[n] = fmt.Sprintf("%s %d", strings.Repeat("x", 40), n)
	}
	h := newHandler(onlineBackend(titles...))
	run(t, h, play(t, "https://open.spotify.com/album/1"))

	r := run(t, h, music(t, "list"))

	if got := content(t, r); !strings.Contains(got, "You have 59 songs waiting to be played!") {
		t.Errorf("expected the too-large message, got %q", got)
	}
}

func TestHandleMusic_PauseResume(t *testing.T) {
	h := newHandler(onlineBackend("a"))
	run(t, h, play(t, "song"))

	if got := content(t, run(t, h, music(t, "pause"))); got != pausedMessage {
		t.Errorf("expected %q, got %q", pausedMessage, got)
	}
	if got := content(t, run(t, h, music(t, "resume"))); got != resumedMessage {
		t.Errorf("expected %q, got %q", resumedMessage, got)
	}
}

func TestHandleMusic_Repeat(t *testing.T) {
	h := newHandler(onlineBackend("a"))
	run(t, h, play(t, "song"))

	if got := content(t, run(t, h, music(t, "repeat"))); got != repeatMessage {
		t.Errorf("expected %q, got %q", repeatMessage, got)
	}
}
