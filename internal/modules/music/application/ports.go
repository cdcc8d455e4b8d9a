package application

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
)

// AudioPlayer controls playback on the audio backend.
type AudioPlayer interface {
	Play(ctx context.Context, guildID snowflake.ID, track domain.Track) error
	SetPaused(ctx context.Context, guildID snowflake.ID, paused bool) error
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error
}

// VoiceConnection joins and leaves voice channels.
type VoiceConnection interface {
	// JoinChannel blocks until the voice connection is ready.
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error

	// LeaveChannel destroys the guild player and disconnects from voice.
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
}

// TrackResolver loads tracks for an identifier.
type TrackResolver interface {
	LoadTracks(ctx context.Context, identifier string) ([]domain.Track, error)

	// Online reports whether a backend node is available.
	Online() bool
}

// VoiceStateProvider looks up where members are connected.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the channel userID is in, or 0 when not in voice.
	UserVoiceChannel(guildID, userID snowflake.ID) snowflake.ID
}

// ChannelSettings returns the configured fallback voice channel.
type ChannelSettings interface {
	// DefaultVoiceChannel returns 0 when the guild has none configured.
	DefaultVoiceChannel(guildID snowflake.ID) snowflake.ID
}

// Notifier posts playback updates to the text channel of a player.
type Notifier interface {
	// NowPlaying posts the now-playing message, or edits messageID when
	// it is non-zero, and returns the message id.
	NowPlaying(ctx context.Context, channelID, messageID snowflake.ID, track domain.Track) (snowflake.ID, error)

	Send(ctx context.Context, channelID snowflake.ID, content string) error
}
