package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Names with special meaning to the dispatcher and the command sync.
const (
	SetupCommandName  = "setup"
	ConfigCommandName = "config"
)

// InteractionHandler handles a Discord interaction.
type InteractionHandler func(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r Responder,
) error

// PermissionFunc decides whether the invoking member may run a command.
type PermissionFunc func(i *discordgo.InteractionCreate) bool

// Command is an application command together with its handlers and guards.
type Command struct {
	// Definition is the payload synced to Discord. Its Name is the registry key.
	Definition *discordgo.ApplicationCommand

	// GuildID limits the command to one guild. Empty means global.
	GuildID string

	// DMAllowed permits the command outside of guilds.
	DMAllowed bool

	// Disabled commands are neither registered nor synced.
	Disabled bool

	// Permission is evaluated before Handler. Nil allows everyone.
	Permission PermissionFunc

	Handler InteractionHandler

	// Autocomplete answers autocomplete requests. No guards apply to it.
	Autocomplete InteractionHandler
}

// Name returns the command name.
func (c *Command) Name() string {
	if c == nil || c.Definition == nil {
		return ""
	}
	return c.Definition.Name
}

// Kind returns the command type, defaulting to chat input.
func (c *Command) Kind() discordgo.ApplicationCommandType {
	if c.Definition == nil || c.Definition.Type == 0 {
		return discordgo.ChatApplicationCommand
	}
	return c.Definition.Type
}

// Component handles interactions for a message component or modal by custom id.
type Component struct {
	ID     string
	Action InteractionHandler
}
