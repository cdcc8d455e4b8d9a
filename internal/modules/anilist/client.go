package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/moyogii/sparrowbot/internal/cache"
	"golang.org/x/time/rate"
)

const (
	// Endpoint is the public AniList GraphQL API.
	Endpoint = "https://graphql.anilist.co"

	responseTTL = time.Hour

	// AniList allows 90 requests per minute.
	requestsPerMinute = 90
)

// ErrNotFound is returned when AniList has no matching entry.
var ErrNotFound = errors.New("anilist: not found")

const animeQuery = `query ($query: String) {
  Page {
    media(search: $query, type: ANIME) {
      id
      type
      description(asHtml: false)
      siteUrl
      season
      seasonYear
      episodes
      status
      nextAiringEpisode { timeUntilAiring episode }
      title { userPreferred native english }
      averageScore
      coverImage { large color }
      trailer { id site }
      studios(isMain: true) { nodes { id name } }
      isAdult
    }
  }
}`

const mangaQuery = `query ($query: String) {
  Page {
    media(search: $query, type: MANGA) {
      id
      type
      description
      siteUrl
      chapters
      volumes
      status
      startDate { year month }
      endDate { year month }
      title { userPreferred native english }
      meanScore
      averageScore
      coverImage { large color }
      isAdult
    }
  }
}`

const userQuery = `query ($search: String) {
  User(name: $search) {
    name
    siteUrl
    avatar { large }
    statistics {
      anime { count minutesWatched meanScore }
      manga { chaptersRead count meanScore }
    }
    donatorTier
    donatorBadge
  }
}`

// Client queries the AniList GraphQL API. Responses are cached by query.
type Client struct {
	httpClient *http.Client
	endpoint   string
	cache      cache.Cache
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
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
		endpoint:   Endpoint,
		cache:      c,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/requestsPerMinute), 5),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchAnime returns the best anime match for name.
func (c *Client) SearchAnime(ctx context.Context, name string) (*Media, error) {
	return c.searchMedia(ctx, animeQuery, name)
}

// SearchManga returns the best manga match for name.
func (c *Client) SearchManga(ctx context.Context, name string) (*Media, error) {
	return c.searchMedia(ctx, mangaQuery, name)
}

func (c *Client) searchMedia(ctx context.Context, query, name string) (*Media, error) {
	var data struct {
		Page struct {
			Media []Media `json:"media"`
		} `json:"Page"`
	}
	if err := c.do(ctx, query, map[string]any{"query": name}, &data); err != nil {
		return nil, err
	}
	if len(data.Page.Media) == 0 {
		return nil, ErrNotFound
	}
	return &data.Page.Media[0], nil
}

// User returns the AniList profile called name.
func (c *Client) User(ctx context.Context, name string) (*User, error) {
	var data struct {
		User *User `json:"User"`
	}
	if err := c.do(ctx, userQuery, map[string]any{"search": name}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, ErrNotFound
	}
	return data.User, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"errors"`
}

// do runs a GraphQL request and decodes its data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode AniList request: %w", err)
	}
	key := cacheKey(payload)

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			return json.Unmarshal([]byte(cached), out)
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("failed to read AniList cache", "error", err)
		}
	}

	data, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode AniList data: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, string(data), responseTTL); err != nil {
			slog.Warn("failed to write AniList cache", "error", err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create AniList request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query AniList: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read AniList response: %w", err)
	}

	// Unknown users come back as a 404 with an error entry.
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode AniList response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || len(decoded.Errors) > 0 {
		msg := strconv.Itoa(resp.StatusCode)
		if len(decoded.Errors) > 0 {
			msg = decoded.Errors[0].Message
		}
		return nil, fmt.Errorf("AniList request failed: %s", msg)
	}
	return decoded.Data, nil
}

func cacheKey(payload []byte) string {
	return "anilist:" + strconv.FormatUint(xxhash.Checksum64(payload), 16)
}
