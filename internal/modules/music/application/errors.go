package application

import "errors"

var (
	ErrOffline        = errors.New("music backend is offline")
	ErrNotConnected   = errors.New("player is not connected")
	ErrNoVoiceChannel = errors.New("no voice channel available")
	ErrNoTracks       = errors.New("no tracks found")
	ErrJoinFailed     = errors.New("failed to join voice channel")
	ErrInvalidVolume  = errors.New("volume must be between 0 and 100")
)
