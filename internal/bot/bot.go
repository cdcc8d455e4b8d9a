package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/telemetry"
	"gorm.io/gorm"
)

// Gateway intents used by the bot and its modules.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildBans |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsMessageContent |
	discordgo.IntentsDirectMessages

// stateMessageCount is how many messages per channel the state keeps.
const stateMessageCount = 100

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config     *Config
	registry   *Registry
	guilds     *guildconfig.Store
	db         *gorm.DB
	cache      cache.Cache
	reporter   telemetry.Reporter
	metrics    *Metrics
	session    *discordgo.Session
	dispatcher *Dispatcher
	started    []Module

	fetchSelf   func(*discordgo.Session) (*discordgo.User, error)
	openGateway func(*discordgo.Session) error
}

// Option configures a Bot.
type Option func(*Bot)

// WithDatabase sets the database handed to modules.
func WithDatabase(db *gorm.DB) Option {
	return func(b *Bot) { b.db = db }
}

// WithCache sets the cache handed to modules.
func WithCache(c cache.Cache) Option {
	return func(b *Bot) { b.cache = c }
}

// WithTelemetry sets where failures are reported.
func WithTelemetry(r telemetry.Reporter) Option {
	return func(b *Bot) { b.reporter = r }
}

// WithBotMetrics sets the metrics recorder.
func WithBotMetrics(m *Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config, registry *Registry, guilds *guildconfig.Store, opts ...Option) *Bot {
	b := &Bot{
		config:   cfg,
		registry: registry,
		guilds:   guilds,
		reporter: telemetry.LogReporter{},
		cache:    cache.NewMemory(),

		fetchSelf: func(s *discordgo.Session) (*discordgo.User, error) {
			return s.User("@me")
		},
		openGateway: (*discordgo.Session).Open,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start loads guild configuration, connects to Discord, initializes the
// modules and syncs their commands.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.connect(ctx); err != nil {
		return err
	}

	syncer := NewSynchronizer(b.session, b.reporter, b.metrics)
	if err := syncer.Sync(b.appID(), b.registry.Commands()); err != nil {
		slog.Warn("failed to sync some commands", "error", err)
	}

	slog.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
		"deployment", b.config.DeploymentEnv,
	)

	return nil
}

// connect initializes the modules and attaches every handler before the
// gateway is opened, so the GuildCreate burst sent on connect reaches them.
func (b *Bot) connect(ctx context.Context) error {
	if err := b.guilds.Load(ctx); err != nil {
		return err
	}

	session, err := discordgo.New("Bot " + b.config.DiscordToken())
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	// Message edit and delete logging needs the previous content from state.
	session.State.MaxMessageCount = stateMessageCount
	b.session = session

	// Modules read the bot user from state during Init; Ready replaces it later.
	self, err := b.fetchSelf(session)
	if err != nil {
		return fmt.Errorf("failed to fetch bot user: %w", err)
	}
	session.State.User = self

	b.dispatcher = NewDispatcher(b.registry, b.guilds,
		WithReporter(b.reporter),
		WithMetrics(b.metrics),
		WithHandlerTimeout(b.config.HandlerTimeout),
	)
	b.session.AddHandler(b.dispatcher.HandleInteraction)

	if err := b.initModules(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}
	if err := b.registry.Collect(); err != nil {
		return fmt.Errorf("failed to collect commands: %w", err)
	}
	b.registerEventHandlers()

	if err := b.openGateway(b.session); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// Run starts the bot and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(ctx); err != nil {
		_ = b.Stop()
		return err
	}
	<-ctx.Done()
	return b.Stop()
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	// Shutdown modules in reverse order
	for i := len(b.started) - 1; i >= 0; i-- {
		mod := b.started[i]
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}
	b.started = nil

	// Close Discord session
	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

func (b *Bot) appID() string {
	if b.config.ClientID != "" {
		return b.config.ClientID
	}
	return b.session.State.User.ID
}

// initModules loads module configuration and initializes all modules.
func (b *Bot) initModules() error {
	deps := ModuleDependencies{
		Session:   b.session,
		Config:    b.config,
		Guilds:    b.guilds,
		DB:        b.db,
		Cache:     b.cache,
		Telemetry: b.reporter,
	}
	if b.session != nil {
		deps.Commands = NewCommandDeleter(b.session, b.appID(), 0)
	}

	modules := b.registry.Modules()
	for _, mod := range modules {
		if cm, ok := mod.(ConfigurableModule); ok {
			if err := cm.LoadConfig(); err != nil {
				return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
			}
		}
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		b.started = append(b.started, mod)
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(modules))
	for i, mod := range modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}

// registerEventHandlers registers all module event handlers with the session.
func (b *Bot) registerEventHandlers() {
	for _, mod := range b.registry.Modules() {
		for _, handler := range mod.EventHandlers() {
			b.session.AddHandler(handler)
		}
	}
}
