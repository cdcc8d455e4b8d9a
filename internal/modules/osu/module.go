package osu

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/caarlos0/env/v11"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/storage"
	"github.com/moyogii/sparrowbot/internal/telemetry"
)

var _ bot.ConfigurableModule = (*OsuModule)(nil)

// OsuModule links osu! accounts, shows player data and tracks new top
// plays.
type OsuModule struct {
	config   *Config
	reporter telemetry.Reporter
	guilds   *guildconfig.Store
	// linker is set by Init; the HTTP callback may run before that.
	linker  atomic.Pointer[Linker]
	tracker atomic.Pointer[Tracker]

	stopTracking context.CancelFunc
	trackingDone chan struct{}
}

// New creates the osu module.
func New() *OsuModule {
	return &OsuModule{}
}

// Name returns the module name.
func (m *OsuModule) Name() string {
	return "osu"
}

// LoadConfig reads the OSU_* variables.
func (m *OsuModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Commands returns the slash commands for this module.
func (m *OsuModule) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: osuCommand, DMAllowed: true, Handler: m.handleOsu},
	}
}

// Components returns nil; the osu module has no components.
func (m *OsuModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns nil; the osu module has no event handlers.
func (m *OsuModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *OsuModule) Init(deps bot.ModuleDependencies) error {
	m.reporter = deps.Telemetry
	m.guilds = deps.Guilds

	if m.config == nil {
		return nil
	}
	api := NewAPI(APIBaseURL, nil)

	if m.config.TrackingEnabled() && deps.Session != nil {
		m.startTracking(NewTracker(api, m.config.ClientCredentials().TokenSource(context.Background()), deps.Guilds, deps.Session))
	} else {
		slog.Info("osu! tracking disabled, OSU_CLIENT_ID or OSU_CLIENT_SECRET not set")
	}

	if !m.config.Enabled() {
		slog.Info("osu! linking disabled, OSU_CLIENT_ID, OSU_CLIENT_SECRET or OSU_REDIRECT_URL not set")
		return nil
	}
	if deps.DB == nil {
		slog.Warn("osu module initialized without database, linking disabled")
		return nil
	}

	states := deps.Cache
	if states == nil {
		states = cache.NewMemory()
	}
	m.linker.Store(NewLinker(m.config.OAuth2(), states, storage.NewOsuRepository(deps.DB), api))
	return nil
}

func (m *OsuModule) startTracking(tracker *Tracker) {
	ctx, cancel := context.WithCancel(context.Background())
	m.tracker.Store(tracker)
	m.stopTracking = cancel
	m.trackingDone = make(chan struct{})

	go func() {
		defer close(m.trackingDone)
		tracker.Run(ctx)
	}()
}

// Shutdown stops the tracking loop.
func (m *OsuModule) Shutdown() error {
	if m.stopTracking != nil {
		m.stopTracking()
		<-m.trackingDone
	}
	return nil
}
