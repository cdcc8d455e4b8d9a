package osu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/storage"
	"golang.org/x/oauth2"
)

// stateTTL bounds how long a /osu connect link stays usable.
const stateTTL = 5 * time.Minute

var (
	// ErrInvalidState is returned for an unknown or expired OAuth state.
	ErrInvalidState = errors.New("osu: invalid or expired state")

	// ErrNotLinked is returned when a Discord user has no linked account.
	ErrNotLinked = errors.New("osu: account not linked")

	// ErrRefreshFailed is returned when a stored refresh token was rejected.
	ErrRefreshFailed = errors.New("osu: token refresh failed")
)

// Endpoint is the osu! OAuth endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://osu.ppy.sh/oauth/authorize",
	TokenURL:  "https://osu.ppy.sh/oauth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Accounts persists account links.
type Accounts interface {
	Save(ctx context.Context, conn *storage.OsuConnection) error
	FindByDiscordID(ctx context.Context, discordID string) (*storage.OsuConnection, error)
	Delete(ctx context.Context, discordID string) error
}

// Linker runs the account linking flow and makes requests on behalf of
// linked users.
type Linker struct {
	oauth    *oauth2.Config
	states   cache.Cache
	accounts Accounts
	api      *API
}

// NewLinker creates a Linker.
func NewLinker(oauth *oauth2.Config, states cache.Cache, accounts Accounts, api *API) *Linker {
	return &Linker{oauth: oauth, states: states, accounts: accounts, api: api}
}

func stateKey(state string) string {
	return "osu:state:" + state
}

// AuthURL starts a link for discordID and returns the URL to authorize at.
func (l *Linker) AuthURL(ctx context.Context, discordID string) (string, error) {
	state := uuid.NewString()
	if err := l.states.Set(ctx, stateKey(state), discordID, stateTTL); err != nil {
		return "", fmt.Errorf("failed to store osu! state: %w", err)
	}
	return l.oauth.AuthCodeURL(state), nil
}

// Complete exchanges code for tokens and links the account to the Discord
// user that requested state. A state can be used once.
func (l *Linker) Complete(ctx context.Context, state, code string) (*User, error) {
	discordID, err := l.states.GetDel(ctx, stateKey(state))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read osu! state: %w", err)
	}

	tok, err := l.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange osu! code: %w", err)
	}

	me, err := l.api.Me(ctx, tok)
	if err != nil {
		return nil, err
	}

	err = l.accounts.Save(ctx, &storage.OsuConnection{
		PlayerID:     fmt.Sprint(me.ID),
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		DiscordID:    discordID,
		LastAccess:   time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return me, nil
}

// Unlink removes the account of discordID.
func (l *Linker) Unlink(ctx context.Context, discordID string) error {
	err := l.accounts.Delete(ctx, discordID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotLinked
	}
	return err
}

// Profile fetches player using the tokens of discordID. An empty player
// selects the caller's own account.
func (l *Linker) Profile(ctx context.Context, discordID, player, mode string) (*User, error) {
	var user *User
	err := l.Do(ctx, discordID, func(api *API, tok *oauth2.Token, own string) error {
		if player == "" {
			player = own
		}
		var err error
		user, err = api.User(ctx, tok, player, mode)
		return err
	})
	return user, err
}

// Do runs fn with the tokens and player id linked to discordID. When fn
// fails with ErrUnauthorized the access token is refreshed and fn runs
// once more.
func (l *Linker) Do(ctx context.Context, discordID string, fn func(api *API, tok *oauth2.Token, playerID string) error) error {
	conn, err := l.accounts.FindByDiscordID(ctx, discordID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotLinked
	}
	if err != nil {
		return err
	}

	tok := &oauth2.Token{AccessToken: conn.Token, RefreshToken: conn.RefreshToken, TokenType: "Bearer"}
	err = fn(l.api, tok, conn.PlayerID)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	tok, err = l.refresh(ctx, conn)
	if err != nil {
		return err
	}
	return fn(l.api, tok, conn.PlayerID)
}

// refresh trades the stored refresh token for a new pair and saves it.
func (l *Linker) refresh(ctx context.Context, conn *storage.OsuConnection) (*oauth2.Token, error) {
	tok, err := l.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: conn.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	conn.Token = tok.AccessToken
	if tok.RefreshToken != "" {
		conn.RefreshToken = tok.RefreshToken
	}
	conn.LastAccess = time.Now()
	if err := l.accounts.Save(ctx, conn); err != nil {
		return nil, err
	}
	return tok, nil
}
