package osu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"golang.org/x/oauth2"
)

// TrackLimit is the most players one guild can track.
const TrackLimit = 30

const (
	trackInterval = 180 * time.Second
	// trackWindow matches trackInterval so each play is posted once.
	trackWindow = 3 * time.Minute
	trackPause  = 3 * time.Second
	trackDepth  = 50
)

var (
	// ErrAlreadyTracked is returned when the player is on the list already.
	ErrAlreadyTracked = errors.New("osu: player already tracked")

	// ErrNotTracked is returned when the player is not on the list.
	ErrNotTracked = errors.New("osu: player not tracked")

	// ErrTrackLimit is returned when the list holds TrackLimit players.
	ErrTrackLimit = errors.New("osu: track limit reached")
)

// Poster sends embeds to channels.
type Poster interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Tracker keeps the tracked player lists and posts new top plays of those
// players to the track channel of each guild. It authenticates with the
// application's own client credentials.
type Tracker struct {
	api     *API
	tokens  oauth2.TokenSource
	guilds  *guildconfig.Store
	discord Poster
	now     func() time.Time
	pause   time.Duration
}

// NewTracker creates a Tracker.
func NewTracker(api *API, tokens oauth2.TokenSource, guilds *guildconfig.Store, discord Poster) *Tracker {
	return &Tracker{
		api:     api,
		tokens:  tokens,
		guilds:  guilds,
		discord: discord,
		now:     time.Now,
		pause:   trackPause,
	}
}

func (t *Tracker) token() (*oauth2.Token, error) {
	tok, err := t.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain osu! application token: %w", err)
	}
	return tok, nil
}

// Resolve looks up player, a username or id.
func (t *Tracker) Resolve(ctx context.Context, player string) (*User, error) {
	tok, err := t.token()
	if err != nil {
		return nil, err
	}
	return t.api.User(ctx, tok, player, "")
}

// trackedPlayers returns the tracked players of guildID.
func trackedPlayers(guilds *guildconfig.Store, guildID string) []string {
	value, _ := guilds.GetValue(guildconfig.KeyOsuTrackedPlayers, guildID)
	return decodePlayers(value)
}

// Track adds player to the list of guildID.
func (t *Tracker) Track(ctx context.Context, guildID, player string) error {
	name := strings.ToLower(player)
	return t.guilds.Update(ctx, guildconfig.KeyOsuTrackedPlayers, guildID, func(current guildconfig.Value, _ bool) (guildconfig.Value, error) {
		players := decodePlayers(current)
		if slices.Contains(players, name) {
			return current, ErrAlreadyTracked
		}
		if len(players) >= TrackLimit {
			return current, ErrTrackLimit
		}
		return encodePlayers(append(players, name))
	})
}

// Untrack removes player from the list of guildID.
func (t *Tracker) Untrack(ctx context.Context, guildID, player string) error {
	name := strings.ToLower(player)
	return t.guilds.Update(ctx, guildconfig.KeyOsuTrackedPlayers, guildID, func(current guildconfig.Value, _ bool) (guildconfig.Value, error) {
		players := decodePlayers(current)
		idx := slices.Index(players, name)
		if idx < 0 {
			return current, ErrNotTracked
		}
		return encodePlayers(slices.Delete(players, idx, idx+1))
	})
}

// Run polls every guild until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(trackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Poll(ctx)
		}
	}
}

// Poll posts the recent top plays of every guild that has a track channel.
func (t *Tracker) Poll(ctx context.Context) {
	for _, guildID := range t.guilds.GuildIDs() {
		value, ok := t.guilds.GetValue(guildconfig.KeyOsuTrackChannel, guildID)
		if !ok {
			continue
		}
		ids, _ := value.AsIDs()
		if len(ids) == 0 {
			continue
		}

		for _, player := range trackedPlayers(t.guilds, guildID) {
			if err := t.postNewPlays(ctx, ids[0], player); err != nil {
				slog.Warn("failed to check tracked osu! player",
					"guild_id", guildID,
					"player", player,
					"error", err,
				)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(t.pause):
			}
		}
	}
}

func (t *Tracker) postNewPlays(ctx context.Context, channelID, player string) error {
	tok, err := t.token()
	if err != nil {
		return err
	}
	user, err := t.api.User(ctx, tok, player, "")
	if err != nil {
		return err
	}
	scores, err := t.api.Scores(ctx, tok, user.ID, ScoresBest, trackDepth)
	if err != nil {
		return err
	}

	now := t.now()
	for idx, score := range scores {
		if now.Sub(score.CreatedAt) >= trackWindow {
			continue
		}

		attrs := attributesOrDefault(ctx, t.api, tok, &score)
		embed := playEmbed(user, &score, attrs, idx+1, now)
		if _, err := t.discord.ChannelMessageSendEmbed(channelID, embed); err != nil {
			return fmt.Errorf("failed to post osu! play: %w", err)
		}
	}
	return nil
}

// attributesOrDefault returns the mod adjusted difficulty of the score's
// beatmap, falling back to the listed values when the lookup fails.
func attributesOrDefault(ctx context.Context, api *API, tok *oauth2.Token, score *Score) DifficultyAttributes {
	attrs, err := api.BeatmapAttributes(ctx, tok, score.Beatmap.ID, score.Mods)
	if err != nil {
		slog.Debug("failed to fetch beatmap attributes", "beatmap_id", score.Beatmap.ID, "error", err)
		return DifficultyAttributes{StarRating: score.Beatmap.DifficultyRating, MaxCombo: score.Beatmap.MaxCombo}
	}
	return *attrs
}

func decodePlayers(value guildconfig.Value) []string {
	raw, ok := value.AsText()
	if !ok {
		return nil
	}
	var players []string
	if err := json.Unmarshal([]byte(raw), &players); err != nil {
		return nil
	}
	return players
}

func encodePlayers(players []string) (guildconfig.Value, error) {
	data, err := json.Marshal(players)
	if err != nil {
		return guildconfig.Value{}, err
	}
	return guildconfig.Text(string(data)), nil
}
