package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

var (
	// ErrAlreadyFollowing is returned when the user follows the manga already.
	ErrAlreadyFollowing = errors.New("mangadex: already following")

	// ErrNotFollowing is returned when the user does not follow the manga.
	ErrNotFollowing = errors.New("mangadex: not following")

	// ErrNoFollows is returned when the user follows nothing in the guild.
	ErrNoFollows = errors.New("mangadex: no follows")
)

// Follow is the list of manga one member follows.
type Follow struct {
	DiscordID string   `json:"discord_id"`
	Manga     []string `json:"manga"`
}

// mangaID accepts a bare id or a title link such as
// https://mangadex.org/title/<id>/<slug>.
func mangaID(arg string) string {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "http://") && !strings.HasPrefix(arg, "https://") {
		return arg
	}
	parts := strings.Split(arg, "/")
	if len(parts) < 5 {
		return ""
	}
	return parts[4]
}

func followList(guilds *guildconfig.Store, guildID string) []Follow {
	value, _ := guilds.GetValue(guildconfig.KeyMangaDexFollowList, guildID)
	return decodeFollows(value)
}

// follow adds mangaID to the list of userID.
func follow(ctx context.Context, guilds *guildconfig.Store, guildID, userID, mangaID string) error {
	return guilds.Update(ctx, guildconfig.KeyMangaDexFollowList, guildID, func(current guildconfig.Value, _ bool) (guildconfig.Value, error) {
		follows := decodeFollows(current)
		idx := slices.IndexFunc(follows, func(f Follow) bool { return f.DiscordID == userID })
		if idx < 0 {
			return encodeFollows(append(follows, Follow{DiscordID: userID, Manga: []string{mangaID}}))
		}
		if slices.Contains(follows[idx].Manga, mangaID) {
			return current, ErrAlreadyFollowing
		}
		follows[idx].Manga = append(follows[idx].Manga, mangaID)
		return encodeFollows(follows)
	})
}

// unfollow removes mangaID from the list of userID. A member left with no
// manga is dropped from the list.
func unfollow(ctx context.Context, guilds *guildconfig.Store, guildID, userID, mangaID string) error {
	return guilds.Update(ctx, guildconfig.KeyMangaDexFollowList, guildID, func(current guildconfig.Value, _ bool) (guildconfig.Value, error) {
		follows := decodeFollows(current)
		idx := slices.IndexFunc(follows, func(f Follow) bool { return f.DiscordID == userID })
		if idx < 0 || len(follows[idx].Manga) == 0 {
			return current, ErrNoFollows
		}
		pos := slices.Index(follows[idx].Manga, mangaID)
		if pos < 0 {
			return current, ErrNotFollowing
		}
		follows[idx].Manga = slices.Delete(follows[idx].Manga, pos, pos+1)
		if len(follows[idx].Manga) == 0 {
			follows = slices.Delete(follows, idx, idx+1)
		}
		return encodeFollows(follows)
	})
}

// unfollowAll drops every follow of userID.
func unfollowAll(ctx context.Context, guilds *guildconfig.Store, guildID, userID string) error {
	return guilds.Update(ctx, guildconfig.KeyMangaDexFollowList, guildID, func(current guildconfig.Value, _ bool) (guildconfig.Value, error) {
		follows := slices.DeleteFunc(decodeFollows(current), func(f Follow) bool { return f.DiscordID == userID })
		return encodeFollows(follows)
	})
}

// decodeFollows reads the stored list. The legacy "{}" default and any
// other undecodable value read as an empty list.
func decodeFollows(value guildconfig.Value) []Follow {
	raw, ok := value.AsText()
	if !ok {
		return nil
	}
	var follows []Follow
	if err := json.Unmarshal([]byte(raw), &follows); err != nil {
		return nil
	}
	return follows
}

func encodeFollows(follows []Follow) (guildconfig.Value, error) {
	if follows == nil {
		follows = []Follow{}
	}
	data, err := json.Marshal(follows)
	if err != nil {
		return guildconfig.Value{}, err
	}
	return guildconfig.Text(string(data)), nil
}
