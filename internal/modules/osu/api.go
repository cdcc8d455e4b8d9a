package osu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// APIBaseURL is the osu! v2 API root.
const APIBaseURL = "https://osu.ppy.sh/api/v2"

var (
	// ErrUnauthorized is returned when the access token was rejected.
	ErrUnauthorized = errors.New("osu: unauthorized")

	// ErrPlayerNotFound is returned when the requested player does not exist.
	ErrPlayerNotFound = errors.New("osu: player not found")

	// ErrBeatmapNotFound is returned when the requested beatmap does not exist.
	ErrBeatmapNotFound = errors.New("osu: beatmap not found")
)

// User is an osu! profile.
type User struct {
	ID               int            `json:"id"`
	Username         string         `json:"username"`
	AvatarURL        string         `json:"avatar_url"`
	CountryCode      string         `json:"country_code"`
	IsSupporter      bool           `json:"is_supporter"`
	JoinDate         time.Time      `json:"join_date"`
	Playmode         string         `json:"playmode"`
	Playstyle        []string       `json:"playstyle"`
	UserAchievements []Achievement  `json:"user_achievements"`
	Statistics       UserStatistics `json:"statistics"`
}

// Achievement is a medal unlocked by a user.
type Achievement struct {
	AchievementID int `json:"achievement_id"`
}

// UserStatistics are the ranked statistics of a user in one mode.
type UserStatistics struct {
	Level struct {
		Current  int `json:"current"`
		Progress int `json:"progress"`
	} `json:"level"`
	PP           float64 `json:"pp"`
	GlobalRank   int     `json:"global_rank"`
	CountryRank  int     `json:"country_rank"`
	RankedScore  int64   `json:"ranked_score"`
	TotalScore   int64   `json:"total_score"`
	TotalHits    int64   `json:"total_hits"`
	HitAccuracy  float64 `json:"hit_accuracy"`
	PlayCount    int     `json:"play_count"`
	PlayTime     int     `json:"play_time"`
	MaximumCombo int     `json:"maximum_combo"`
	GradeCounts  struct {
		SS  int `json:"ss"`
		SSH int `json:"ssh"`
		S   int `json:"s"`
		SH  int `json:"sh"`
		A   int `json:"a"`
	} `json:"grade_counts"`
}

// Score is a submitted play.
type Score struct {
	ID         int64     `json:"id"`
	Accuracy   float64   `json:"accuracy"`
	Mods       []string  `json:"mods"`
	Score      int64     `json:"score"`
	MaxCombo   int       `json:"max_combo"`
	Passed     bool      `json:"passed"`
	PP         float64   `json:"pp"`
	Rank       string    `json:"rank"`
	CreatedAt  time.Time `json:"created_at"`
	Statistics struct {
		Count300  int `json:"count_300"`
		Count100  int `json:"count_100"`
		Count50   int `json:"count_50"`
		CountMiss int `json:"count_miss"`
	} `json:"statistics"`
	Beatmap    Beatmap    `json:"beatmap"`
	Beatmapset Beatmapset `json:"beatmapset"`
}

// Beatmap is one difficulty of a beatmapset.
type Beatmap struct {
	ID               int         `json:"id"`
	BeatmapsetID     int         `json:"beatmapset_id"`
	Version          string      `json:"version"`
	DifficultyRating float64     `json:"difficulty_rating"`
	TotalLength      int         `json:"total_length"`
	BPM              float64     `json:"bpm"`
	AR               float64     `json:"ar"`
	OD               float64     `json:"accuracy"`
	CS               float64     `json:"cs"`
	HP               float64     `json:"drain"`
	CountCircles     int         `json:"count_circles"`
	CountSliders     int         `json:"count_sliders"`
	CountSpinners    int         `json:"count_spinners"`
	MaxCombo         int         `json:"max_combo"`
	URL              string      `json:"url"`
	Beatmapset       *Beatmapset `json:"beatmapset"`
}

// Beatmapset groups the difficulties of one song.
type Beatmapset struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Artist         string     `json:"artist"`
	Creator        string     `json:"creator"`
	FavouriteCount int        `json:"favourite_count"`
	Status         string     `json:"status"`
	PreviewURL     string     `json:"preview_url"`
	RankedDate     *time.Time `json:"ranked_date"`
	Covers         struct {
		Cover string `json:"cover"`
		List  string `json:"list"`
	} `json:"covers"`
}

// DifficultyAttributes are the mod adjusted attributes of a beatmap.
type DifficultyAttributes struct {
	StarRating float64 `json:"star_rating"`
	MaxCombo   int     `json:"max_combo"`
}

// ScoreKind selects a score listing of a user.
type ScoreKind string

const (
	ScoresBest   ScoreKind = "best"
	ScoresRecent ScoreKind = "recent"
)

// API is a minimal osu! v2 client authenticated per request.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI creates an API rooted at baseURL.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &API{baseURL: baseURL, httpClient: httpClient}
}

// Me returns the owner of tok.
func (a *API) Me(ctx context.Context, tok *oauth2.Token) (*User, error) {
	var user User
	if err := a.do(ctx, tok, http.MethodGet, "/me", nil, ErrPlayerNotFound, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User returns the profile of player, a username or id. An empty mode
// selects the player's default mode.
func (a *API) User(ctx context.Context, tok *oauth2.Token, player, mode string) (*User, error) {
	path := "/users/" + url.PathEscape(player)
	if mode != "" {
		path += "/" + url.PathEscape(mode)
	}

	var user User
	if err := a.do(ctx, tok, http.MethodGet, path, nil, ErrPlayerNotFound, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Scores lists up to limit scores of userID. Recent scores include failed
// plays.
func (a *API) Scores(ctx context.Context, tok *oauth2.Token, userID int, kind ScoreKind, limit int) ([]Score, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if kind == ScoresRecent {
		query.Set("include_fails", "1")
	}
	path := fmt.Sprintf("/users/%d/scores/%s?%s", userID, kind, query.Encode())

	var scores []Score
	if err := a.do(ctx, tok, http.MethodGet, path, nil, ErrPlayerNotFound, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// Beatmap returns the beatmap with the given id.
func (a *API) Beatmap(ctx context.Context, tok *oauth2.Token, id string) (*Beatmap, error) {
	var beatmap Beatmap
	if err := a.do(ctx, tok, http.MethodGet, "/beatmaps/"+url.PathEscape(id), nil, ErrBeatmapNotFound, &beatmap); err != nil {
		return nil, err
	}
	return &beatmap, nil
}

// BeatmapAttributes returns the difficulty of beatmap id with mods applied.
func (a *API) BeatmapAttributes(ctx context.Context, tok *oauth2.Token, id int, mods []string) (*DifficultyAttributes, error) {
	if mods == nil {
		mods = []string{}
	}
	var resp struct {
		Attributes DifficultyAttributes `json:"attributes"`
	}
	path := fmt.Sprintf("/beatmaps/%d/attributes", id)
	if err := a.do(ctx, tok, http.MethodPost, path, map[string]any{"mods": mods}, ErrBeatmapNotFound, &resp); err != nil {
		return nil, err
	}
	return &resp.Attributes, nil
}

// do sends one request and decodes the JSON response into out. A 404 maps
// to notFound.
func (a *API) do(ctx context.Context, tok *oauth2.Token, method, path string, in any, notFound error, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode osu! request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create osu! request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok.SetAuthHeader(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query osu!: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return notFound
	default:
		return fmt.Errorf("osu! request %s failed with status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode osu! response: %w", err)
	}
	return nil
}
