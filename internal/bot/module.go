package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/telemetry"
	"gorm.io/gorm"
)

// EventHandler is a generic handler for any Discord event.
// It should be a function matching one of discordgo's handler signatures,
// e.g., func(s *discordgo.Session, m *discordgo.MessageCreate)
type EventHandler any

// ModuleDependencies carries the shared collaborators handed to every module.
// It is built once by the process entry point.
type ModuleDependencies struct {
	Session   *discordgo.Session
	Config    *Config
	Guilds    *guildconfig.Store
	DB        *gorm.DB
	Cache     cache.Cache
	Telemetry telemetry.Reporter
	Commands  *CommandDeleter
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the application commands that this module provides.
	// It is called after Init.
	Commands() []*Command

	// Components returns the component handlers that this module provides.
	// It is called after Init.
	Components() []*Component

	// EventHandlers returns event handlers for this module.
	// Each handler should match a discordgo handler signature.
	EventHandlers() []EventHandler

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need configuration.
// Modules implementing this interface will have LoadConfig called before Init.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}
