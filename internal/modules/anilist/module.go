package anilist

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/storage"
)

// Searcher looks up AniList entries.
type Searcher interface {
	SearchAnime(ctx context.Context, name string) (*Media, error)
	SearchManga(ctx context.Context, name string) (*Media, error)
	User(ctx context.Context, name string) (*User, error)
}

// TitleIndex searches the local title tables used for autocomplete.
type TitleIndex interface {
	Search(ctx context.Context, mediaType, query string, limit int) ([]storage.Media, error)
}

// ChannelLookup resolves a channel to check its NSFW flag.
type ChannelLookup interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// AnilistModule provides /anilist.
type AnilistModule struct {
	api      Searcher
	titles   TitleIndex
	channels ChannelLookup
}

// New creates the anilist module.
func New() *AnilistModule {
	return &AnilistModule{}
}

// Name returns the module name.
func (m *AnilistModule) Name() string {
	return "anilist"
}

// Commands returns the slash commands for this module.
func (m *AnilistModule) Commands() []*bot.Command {
	return []*bot.Command{
		{
			Definition:   anilistCommand,
			DMAllowed:    true,
			Handler:      m.handleAnilist,
			Autocomplete: m.handleAutocomplete,
		},
	}
}

// Components returns nil; the trailer button is a plain link.
func (m *AnilistModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns nil; the anilist module has no event handlers.
func (m *AnilistModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *AnilistModule) Init(deps bot.ModuleDependencies) error {
	m.api = NewClient(deps.Cache)
	if deps.DB != nil {
		m.titles = storage.NewMediaRepository(deps.DB)
	} else {
		slog.Warn("anilist module initialized without database, autocomplete disabled")
	}
	if deps.Session != nil {
		m.channels = deps.Session
	}
	return nil
}

// Shutdown cleans up module resources.
func (m *AnilistModule) Shutdown() error {
	return nil
}
