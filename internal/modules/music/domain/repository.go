package domain

import "github.com/disgoorg/snowflake/v2"

// PlayerStateRepository stores player states keyed by guild.
type PlayerStateRepository interface {
	// Get returns the state for guildID, or nil if the bot is not connected there.
	Get(guildID snowflake.ID) *PlayerState

	Save(state *PlayerState)

	Delete(guildID snowflake.ID)
}
