package mangadex

import (
	"context"
	"log/slog"

	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

// MangaDexModule provides /md and announces new chapters of followed manga.
type MangaDexModule struct {
	api    Source
	guilds *guildconfig.Store

	stopPolling context.CancelFunc
	pollingDone chan struct{}
}

// New creates the mangadex module.
func New() *MangaDexModule {
	return &MangaDexModule{}
}

// Name returns the module name.
func (m *MangaDexModule) Name() string {
	return "mangadex"
}

// Commands returns the slash commands for this module.
func (m *MangaDexModule) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: mdCommand, Handler: m.handleMD},
	}
}

// Components returns nil; the chapter button is a plain link.
func (m *MangaDexModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns nil; the mangadex module has no event handlers.
func (m *MangaDexModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module and starts the chapter poller.
func (m *MangaDexModule) Init(deps bot.ModuleDependencies) error {
	m.guilds = deps.Guilds
	m.api = NewClient(deps.Cache)

	if deps.Session == nil {
		slog.Warn("mangadex module initialized without session, chapter notifications disabled")
		return nil
	}
	m.startPolling(NewPoller(m.api, deps.Guilds, deps.Session))
	return nil
}

func (m *MangaDexModule) startPolling(p *Poller) {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopPolling = cancel
	m.pollingDone = make(chan struct{})

	go func() {
		defer close(m.pollingDone)
		p.Run(ctx)
	}()
}

// Shutdown stops the chapter poller.
func (m *MangaDexModule) Shutdown() error {
	if m.stopPolling != nil {
		m.stopPolling()
		<-m.pollingDone
	}
	return nil
}
