package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// DefaultVolume is the volume a new player starts at.
const DefaultVolume = 100

// PlayerState is the playback state of one guild.
type PlayerState struct {
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID
	TextChannelID  snowflake.ID

	// NowPlayingMessageID is the message edited on every track start.
	NowPlayingMessageID snowflake.ID

	current  *Track
	upcoming []Track
	repeat   bool
	paused   bool
	volume   int
}

// NewPlayerState creates an idle player bound to the given channels.
func NewPlayerState(guildID, voiceChannelID, textChannelID snowflake.ID) *PlayerState {
	return &PlayerState{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		volume:         DefaultVolume,
	}
}

// Current returns the track being played, or nil when idle.
func (s *PlayerState) Current() *Track {
	return s.current
}

// IsIdle reports whether nothing is playing.
func (s *PlayerState) IsIdle() bool {
	return s.current == nil
}

// Upcoming returns a copy of the tracks waiting after the current one.
func (s *PlayerState) Upcoming() []Track {
	result := make([]Track, len(s.upcoming))
	copy(result, s.upcoming)
	return result
}

// Enqueue appends tracks to the end of the queue.
func (s *PlayerState) Enqueue(tracks ...Track) {
	s.upcoming = append(s.upcoming, tracks...)
}

// Advance moves to the next track and returns it, or nil when the queue
// is exhausted. A pending repeat replays the current track once.
func (s *PlayerState) Advance() *Track {
	if s.repeat && s.current != nil {
		s.repeat = false
		return s.current
	}
	s.repeat = false

	if len(s.upcoming) == 0 {
		s.current = nil
		return nil
	}

	next := s.upcoming[0]
	s.upcoming = s.upcoming[1:]
	s.current = &next
	return s.current
}

// Skip drops a pending repeat and advances.
func (s *PlayerState) Skip() *Track {
	s.repeat = false
	return s.Advance()
}

// SetRepeat marks the current track to be replayed once when it ends.
func (s *PlayerState) SetRepeat(repeat bool) {
	s.repeat = repeat
}

// Repeat reports whether the current track will be replayed.
func (s *PlayerState) Repeat() bool {
	return s.repeat
}

// SetPaused records the paused flag.
func (s *PlayerState) SetPaused(paused bool) {
	s.paused = paused
}

// Paused reports whether playback is paused.
func (s *PlayerState) Paused() bool {
	return s.paused
}

// SetVolume records the volume.
func (s *PlayerState) SetVolume(volume int) {
	s.volume = volume
}

// Volume returns the volume.
func (s *PlayerState) Volume() int {
	return s.volume
}
