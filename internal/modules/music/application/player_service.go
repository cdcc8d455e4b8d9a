package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
)

// Volume bounds accepted by SetVolume.
const (
	MinVolume = 0
	MaxVolume = 100
)

// InactivityMessage is posted when the queue runs dry and the player leaves.
const InactivityMessage = "Disconnected player due to inactivity. Goodbye! :wave:"

// PlayInput is the input of PlayerService.Play.
type PlayInput struct {
	GuildID        snowflake.ID
	VoiceChannelID snowflake.ID
	TextChannelID  snowflake.ID
	Query          string
}

// PlayOutput describes what Play queued.
type PlayOutput struct {
	Added    []domain.Track
	Playlist bool
}

// SkipOutput describes the outcome of Skip.
type SkipOutput struct {
	Next         *domain.Track
	Disconnected bool
}

// PlayerService drives per-guild playback.
type PlayerService struct {
	repo       domain.PlayerStateRepository
	player     AudioPlayer
	voice      VoiceConnection
	tracks     TrackResolver
	voiceState VoiceStateProvider
	settings   ChannelSettings
	notifier   Notifier

	mu    sync.Mutex
	locks map[snowflake.ID]*sync.Mutex
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(
	repo domain.PlayerStateRepository,
	player AudioPlayer,
	voice VoiceConnection,
	tracks TrackResolver,
	voiceState VoiceStateProvider,
	settings ChannelSettings,
	notifier Notifier,
) *PlayerService {
	return &PlayerService{
		repo:       repo,
		player:     player,
		voice:      voice,
		tracks:     tracks,
		voiceState: voiceState,
		settings:   settings,
		notifier:   notifier,
		locks:      make(map[snowflake.ID]*sync.Mutex),
	}
}

// lock serializes operations on one guild and returns the unlock func.
func (s *PlayerService) lock(guildID snowflake.ID) func() {
	s.mu.Lock()
	l, ok := s.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[guildID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Online reports whether the audio backend can serve requests.
func (s *PlayerService) Online() bool {
	return s.tracks != nil && s.tracks.Online()
}

// VoiceChannel returns the channel the user is in, falling back to the
// configured music channel.
func (s *PlayerService) VoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error) {
	if id := s.voiceState.UserVoiceChannel(guildID, userID); id != 0 {
		return id, nil
	}
	if id := s.settings.DefaultVoiceChannel(guildID); id != 0 {
		return id, nil
	}
	return 0, ErrNoVoiceChannel
}

// Play resolves a query, joins voice if needed and queues the result.
// Playback starts immediately when the player is idle.
func (s *PlayerService) Play(ctx context.Context, in PlayInput) (*PlayOutput, error) {
	query := domain.NewSearchQuery(in.Query)

	tracks, err := s.tracks.LoadTracks(ctx, query.Identifier())
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	out := &PlayOutput{Added: tracks[:1]}
	if query.IsPlaylist() && len(tracks) > 1 {
		out.Added = tracks
		out.Playlist = true
	}

	unlock := s.lock(in.GuildID)
	defer unlock()

	state := s.repo.Get(in.GuildID)
	if state == nil {
		if err := s.voice.JoinChannel(ctx, in.GuildID, in.VoiceChannelID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrJoinFailed, err)
		}
		state = domain.NewPlayerState(in.GuildID, in.VoiceChannelID, in.TextChannelID)
	}

	state.Enqueue(out.Added...)
	if state.IsIdle() {
		next := state.Advance()
		if err := s.playTrack(ctx, state, *next); err != nil {
			s.repo.Save(state)
			return nil, err
		}
	}
	s.repo.Save(state)

	return out, nil
}

// Skip plays the next track, or leaves voice when nothing is queued.
func (s *PlayerService) Skip(ctx context.Context, guildID snowflake.ID) (*SkipOutput, error) {
	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	if len(state.Upcoming()) == 0 {
		if err := s.leave(ctx, state); err != nil {
			return nil, err
		}
		return &SkipOutput{Disconnected: true}, nil
	}

	next := state.Skip()
	defer s.repo.Save(state)
	if err := s.playTrack(ctx, state, *next); err != nil {
		return nil, err
	}
	return &SkipOutput{Next: next}, nil
}

// Stop leaves voice and forgets the queue.
func (s *PlayerService) Stop(ctx context.Context, guildID snowflake.ID) error {
	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	return s.leave(ctx, state)
}

// Repeat replays the current track once after it ends.
func (s *PlayerService) Repeat(guildID snowflake.ID) error {
	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	state.SetRepeat(true)
	s.repo.Save(state)
	return nil
}

// SetVolume changes the player volume.
func (s *PlayerService) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrInvalidVolume
	}

	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	if err := s.player.SetVolume(ctx, guildID, volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	state.SetVolume(volume)
	s.repo.Save(state)
	return nil
}

// SetPaused pauses or resumes playback.
func (s *PlayerService) SetPaused(ctx context.Context, guildID snowflake.ID, paused bool) error {
	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	if err := s.player.SetPaused(ctx, guildID, paused); err != nil {
		return fmt.Errorf("failed to update pause state: %w", err)
	}
	state.SetPaused(paused)
	s.repo.Save(state)
	return nil
}

// Queue returns the tracks waiting after the current one.
func (s *PlayerService) Queue(guildID snowflake.ID) ([]domain.Track, error) {
	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}
	return state.Upcoming(), nil
}

// HandleTrackEnd advances the queue after a track finished on its own.
// Ends caused by replacing or stopping a track are ignored.
func (s *PlayerService) HandleTrackEnd(ctx context.Context, guildID snowflake.ID, mayStartNext bool) error {
	if !mayStartNext {
		return nil
	}

	unlock := s.lock(guildID)
	defer unlock()

	state := s.repo.Get(guildID)
	if state == nil {
		return nil
	}

	next := state.Advance()
	if next == nil {
		if err := s.notifier.Send(ctx, state.TextChannelID, InactivityMessage); err != nil {
			slog.Warn("failed to send inactivity message", "guild_id", guildID, "error", err)
		}
		return s.leave(ctx, state)
	}

	defer s.repo.Save(state)
	return s.playTrack(ctx, state, *next)
}

// HandleDisconnected forgets the player of a guild the bot was removed
// from voice in.
func (s *PlayerService) HandleDisconnected(guildID snowflake.ID) {
	unlock := s.lock(guildID)
	defer unlock()

	if s.repo.Get(guildID) != nil {
		slog.Info("bot left voice, dropping player", "guild_id", guildID)
		s.repo.Delete(guildID)
	}
}

func (s *PlayerService) playTrack(ctx context.Context, state *domain.PlayerState, track domain.Track) error {
	if err := s.player.Play(ctx, state.GuildID, track); err != nil {
		return fmt.Errorf("failed to play %q: %w", track.Title, err)
	}

	id, err := s.notifier.NowPlaying(ctx, state.TextChannelID, state.NowPlayingMessageID, track)
	if err != nil {
		slog.Warn("failed to post now playing message", "guild_id", state.GuildID, "error", err)
		return nil
	}
	state.NowPlayingMessageID = id
	return nil
}

func (s *PlayerService) leave(ctx context.Context, state *domain.PlayerState) error {
	s.repo.Delete(state.GuildID)
	if err := s.voice.LeaveChannel(ctx, state.GuildID); err != nil {
		return fmt.Errorf("failed to leave voice: %w", err)
	}
	return nil
}
