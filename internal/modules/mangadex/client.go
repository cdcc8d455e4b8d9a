package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/moyogii/sparrowbot/internal/cache"
)

const (
	// BaseURL is the public MangaDex API.
	BaseURL = "https://api.mangadex.org"

	// MangaDex allows five requests per second per client.
	requestsPerSecond = 5
	mangaTTL          = time.Hour
)

var (
	// ErrNotFound is returned when the manga does not exist.
	ErrNotFound = errors.New("mangadex: manga not found")

	// ErrNoChapters is returned when a manga has no English chapters yet.
	ErrNoChapters = errors.New("mangadex: no chapters")
)

// Manga is a MangaDex title.
type Manga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title map[string]string `json:"title"`
	} `json:"attributes"`
}

// Title returns the English title, or any title when there is none.
func (m *Manga) Title() string {
	if title, ok := m.Attributes.Title["en"]; ok {
		return title
	}
	for _, title := range m.Attributes.Title {
		return title
	}
	return m.ID
}

// Chapter is one translated chapter of a manga.
type Chapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Chapter   string    `json:"chapter"`
		PublishAt time.Time `json:"publishAt"`
	} `json:"attributes"`
}

// Cover is a cover image of a manga.
type Cover struct {
	ID         string `json:"id"`
	Attributes struct {
		FileName string `json:"fileName"`
	} `json:"attributes"`
}

// Client queries the MangaDex API. Manga details are cached; feeds and
// covers are always fetched.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Cache
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(c cache.Cache, opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    BaseURL,
		cache:      c,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Manga returns the manga with id.
func (c *Client) Manga(ctx context.Context, id string) (*Manga, error) {
	key := "mangadex:manga:" + id
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			var manga Manga
			if err := json.Unmarshal([]byte(cached), &manga); err == nil {
				return &manga, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("failed to read MangaDex cache", "error", err)
		}
	}

	var resp struct {
		Data *Manga `json:"data"`
	}
	if err := c.get(ctx, "/manga/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		if data, err := json.Marshal(resp.Data); err == nil {
			if err := c.cache.Set(ctx, key, string(data), mangaTTL); err != nil {
				slog.Warn("failed to write MangaDex cache", "error", err)
			}
		}
	}
	return resp.Data, nil
}

// LatestChapter returns the highest numbered English chapter of manga id.
func (c *Client) LatestChapter(ctx context.Context, id string) (*Chapter, error) {
	query := url.Values{
		"limit":                {"1"},
		"order[chapter]":       {"desc"},
		"translatedLanguage[]": {"en"},
	}
	var resp struct {
		Data []Chapter `json:"data"`
	}
	if err := c.get(ctx, "/manga/"+url.PathEscape(id)+"/feed", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoChapters
	}
	return &resp.Data[0], nil
}

// LatestCover returns the newest cover of manga id.
func (c *Client) LatestCover(ctx context.Context, id string) (*Cover, error) {
	query := url.Values{
		"limit":            {"1"},
		"order[createdAt]": {"desc"},
		"manga[]":          {id},
	}
	var resp struct {
		Data []Cover `json:"data"`
	}
	if err := c.get(ctx, "/cover", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("mangadex: manga %s has no cover", id)
	}
	return &resp.Data[0], nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create MangaDex request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query MangaDex: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read MangaDex response: %w", err)
	}

	// Malformed ids come back as a 400 rather than a 404.
	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusBadRequest:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("MangaDex request failed: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode MangaDex response: %w", err)
	}
	return nil
}
