package osu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/storage"
	"golang.org/x/oauth2"
)

type fakeAccounts struct {
	mu    sync.Mutex
	conns map[string]storage.OsuConnection
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{conns: make(map[string]storage.OsuConnection)}
}

func (f *fakeAccounts) Save(ctx context.Context, conn *storage.OsuConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn.DiscordID] = *conn
	return nil
}

func (f *fakeAccounts) FindByDiscordID(ctx context.Context, discordID string) (*storage.OsuConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.conns[discordID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &conn, nil
}

func (f *fakeAccounts) Delete(ctx context.Context, discordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conns[discordID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.conns, discordID)
	return nil
}

// fakeOsu serves the token endpoint and the user, score and beatmap
// endpoints. Requests authenticated with appToken are always accepted.
type fakeOsu struct {
	mu         sync.Mutex
	validToken string
	refreshOK  bool
	scores     map[ScoreKind][]Score
	attrMods   [][]string
}

const appToken = "app-1"

func (f *fakeOsu) setScores(kind ScoreKind, scores ...Score) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scores == nil {
		f.scores = make(map[ScoreKind][]Score)
	}
	f.scores[kind] = scores
}

func (f *fakeOsu) token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validToken
}

func (f *fakeOsu) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/oauth/token" {
		_ = r.ParseForm()
		var body map[string]any
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			body = map[string]any{"access_token": "tok-1", "refresh_token": "ref-1", "token_type": "Bearer", "expires_in": 86400}
		case "refresh_token":
			f.mu.Lock()
			ok := f.refreshOK
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			body = map[string]any{"access_token": "tok-2", "refresh_token": "ref-2", "token_type": "Bearer", "expires_in": 86400}
		case "client_credentials":
			body = map[string]any{"access_token": appToken, "token_type": "Bearer", "expires_in": 86400}
		}
		_ = json.NewEncoder(w).Encode(body)
		return
	}

	auth := r.Header.Get("Authorization")
	if auth != "Bearer "+f.token() && auth != "Bearer "+appToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/api/v2/me":
		_, _ = w.Write([]byte(`{"id":7,"username":"peppy"}`))
	case r.URL.Path == "/api/v2/users/missing":
		w.WriteHeader(http.StatusNotFound)
	case strings.HasPrefix(r.URL.Path, "/api/v2/users/7/scores/"):
		kind := ScoreKind(strings.TrimPrefix(r.URL.Path, "/api/v2/users/7/scores/"))
		f.mu.Lock()
		scores := f.scores[kind]
		f.mu.Unlock()
		if scores == nil {
			scores = []Score{}
		}
		_ = json.NewEncoder(w).Encode(scores)
	case r.URL.Path == "/api/v2/beatmaps/456/attributes" && r.Method == http.MethodPost:
		var body struct {
			Mods []string `json:"mods"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.attrMods = append(f.attrMods, body.Mods)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"attributes": map[string]any{"star_rating": 5.0 + float64(len(body.Mods)), "max_combo": 500},
		})
	case r.URL.Path == "/api/v2/beatmaps/456":
		_, _ = w.Write([]byte(`{"id":456,"beatmapset_id":123,"version":"Insane","total_length":200,"bpm":180,"ar":9.3,"accuracy":8,"cs":4,"drain":6,` +
			`"count_circles":300,"count_sliders":100,"count_spinners":2,"max_combo":500,"url":"https://osu.ppy.sh/beatmaps/456",` +
			`"beatmapset":{"title":"Blue Zenith","artist":"xi","creator":"Asphyxia","favourite_count":9000,"status":"ranked","preview_url":"//b.ppy.sh/preview/123.mp3"}}`))
	case strings.HasPrefix(r.URL.Path, "/api/v2/users/"):
		rest := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v2/users/"), "/")
		mode := "osu"
		if len(rest) > 1 {
			mode = rest[1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": rest[0], "playmode": mode})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestBackend(t *testing.T) (*fakeOsu, *httptest.Server) {
	t.Helper()
	backend := &fakeOsu{validToken: "tok-1", refreshOK: true}
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return backend, server
}

func newTestLinker(t *testing.T) (*Linker, *fakeAccounts, *fakeOsu) {
	t.Helper()
	backend, server := newTestBackend(t)

	cfg := &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "https://bot.example/auth/osu/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   server.URL + "/oauth/authorize",
			TokenURL:  server.URL + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	accounts := newFakeAccounts()
	return NewLinker(cfg, cache.NewMemory(), accounts, NewAPI(server.URL+"/api/v2", server.Client())), accounts, backend
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("failed to parse auth url: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in %s", authURL)
	}
	return state
}

func TestLinker_LinkFlow(t *testing.T) {
	linker, accounts, _ := newTestLinker(t)
	ctx := context.Background()

	authURL, err := linker.AuthURL(ctx, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(authURL, "client_id=client") {
		t.Errorf("expected client id in %s", authURL)
	}
	state := stateFrom(t, authURL)

	user, err := linker.Complete(ctx, state, "good")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "peppy" {
		t.Errorf("expected peppy, got %q", user.Username)
	}

	conn, err := accounts.FindByDiscordID(ctx, "42")
	if err != nil {
		t.Fatalf("expected stored link: %v", err)
	}
	if conn.PlayerID != "7" || conn.Token != "tok-1" || conn.RefreshToken != "ref-1" {
		t.Errorf("unexpected connection %+v", conn)
	}

	if _, err := linker.Complete(ctx, state, "good"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected reused state to fail, got %v", err)
	}
}

func TestLinker_Complete_UnknownState(t *testing.T) {
	linker, _, _ := newTestLinker(t)

	if _, err := linker.Complete(context.Background(), "nope", "good"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestLinker_Complete_BadCode(t *testing.T) {
	linker, accounts, _ := newTestLinker(t)
	ctx := context.Background()

	authURL, _ := linker.AuthURL(ctx, "42")
	if _, err := linker.Complete(ctx, stateFrom(t, authURL), "bad"); err == nil {
		t.Fatal("expected exchange error")
	}
	if len(accounts.conns) != 0 {
		t.Error("expected nothing stored")
	}
}

func TestLinker_Profile(t *testing.T) {
	linker, accounts, _ := newTestLinker(t)
	ctx := context.Background()
	_ = accounts.Save(ctx, &storage.OsuConnection{DiscordID: "42", PlayerID: "7", Token: "tok-1", RefreshToken: "ref-1"})

	own, err := linker.Profile(ctx, "42", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if own.Username != "7" {
		t.Errorf("expected own player id lookup, got %q", own.Username)
	}

	other, err := linker.Profile(ctx, "42", "cookiezi", "mania")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Username != "cookiezi" || other.Playmode != "mania" {
		t.Errorf("unexpected user %+v", other)
	}

	if _, err := linker.Profile(ctx, "42", "missing", ""); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestLinker_Profile_NotLinked(t *testing.T) {
	linker, _, _ := newTestLinker(t)

	if _, err := linker.Profile(context.Background(), "42", "", ""); !errors.Is(err, ErrNotLinked) {
		t.Errorf("expected ErrNotLinked, got %v", err)
	}
}

func TestLinker_Profile_RefreshesExpiredToken(t *testing.T) {
	linker, accounts, backend := newTestLinker(t)
	ctx := context.Background()
	backend.validToken = "tok-2"
	_ = accounts.Save(ctx, &storage.OsuConnection{DiscordID: "42", PlayerID: "7", Token: "tok-1", RefreshToken: "ref-1"})

	if _, err := linker.Profile(ctx, "42", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn, _ := accounts.FindByDiscordID(ctx, "42")
	if conn.Token != "tok-2" || conn.RefreshToken != "ref-2" {
		t.Errorf("expected refreshed tokens, got %+v", conn)
	}
}

func TestLinker_Profile_RefreshRejected(t *testing.T) {
	linker, accounts, backend := newTestLinker(t)
	ctx := context.Background()
	backend.validToken = "tok-2"
	backend.refreshOK = false
	_ = accounts.Save(ctx, &storage.OsuConnection{DiscordID: "42", PlayerID: "7", Token: "tok-1", RefreshToken: "ref-1"})

	if _, err := linker.Profile(ctx, "42", "", ""); !errors.Is(err, ErrRefreshFailed) {
		t.Errorf("expected ErrRefreshFailed, got %v", err)
	}
}

func TestLinker_Unlink(t *testing.T) {
	linker, accounts, _ := newTestLinker(t)
	ctx := context.Background()
	_ = accounts.Save(ctx, &storage.OsuConnection{DiscordID: "42"})

	if err := linker.Unlink(ctx, "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := linker.Unlink(ctx, "42"); !errors.Is(err, ErrNotLinked) {
		t.Errorf("expected ErrNotLinked, got %v", err)
	}
}
