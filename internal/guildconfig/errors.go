package guildconfig

import "errors"

var (
	// ErrUnknownOption is returned for keys outside the catalog.
	ErrUnknownOption = errors.New("unknown config option")

	// ErrInvalidValue is returned when input does not match the option type.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrGuildNotFound is returned when the guild has no loaded configuration.
	ErrGuildNotFound = errors.New("guild config not found")
)
