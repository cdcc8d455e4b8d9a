package domain

import "strings"

// searchPrefix is the Lavalink prefix used for plain-text searches.
const searchPrefix = "ytsearch:"

// SearchQuery is user input turned into a Lavalink identifier.
type SearchQuery struct {
	Input string
	IsURL bool
}

// NewSearchQuery trims input and detects direct links.
func NewSearchQuery(input string) SearchQuery {
	input = strings.TrimSpace(input)
	return SearchQuery{
		Input: input,
		IsURL: strings.HasPrefix(input, "http://") ||
			strings.HasPrefix(input, "https://") ||
			strings.HasPrefix(input, "www."),
	}
}

// Identifier returns the string passed to the track loader.
func (q SearchQuery) Identifier() string {
	if q.IsURL {
		return q.Input
	}
	return searchPrefix + q.Input
}

// IsPlaylist reports whether the input points at a playlist or album,
// in which case every loaded track is queued instead of only the first.
func (q SearchQuery) IsPlaylist() bool {
	s := q.Input
	return (strings.Contains(s, "youtube.com") && strings.Contains(s, "&list=")) ||
		(strings.Contains(s, "soundcloud.com") && strings.Contains(s, "playlist/")) ||
		(strings.Contains(s, "open.spotify.com") && strings.Contains(s, "playlist/")) ||
		strings.Contains(s, "album/")
}
