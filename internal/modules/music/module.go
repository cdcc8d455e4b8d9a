package music

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
	"github.com/moyogii/sparrowbot/internal/modules/music/infrastructure"
	"github.com/moyogii/sparrowbot/internal/modules/music/presentation"
)

// trackEndTimeout bounds the work done when a track ends.
const trackEndTimeout = 15 * time.Second

var _ bot.ConfigurableModule = (*MusicModule)(nil)

// MusicModule plays audio in voice channels through Lavalink.
type MusicModule struct {
	config   *Config
	repo     *infrastructure.MemoryRepository
	service  *application.PlayerService
	handler  *presentation.MusicHandler
	lavalink *infrastructure.LavalinkAdapter
}

// New creates the music module.
func New() *MusicModule {
	return &MusicModule{}
}

// Name returns the module name.
func (m *MusicModule) Name() string {
	return "music"
}

// LoadConfig reads the MUSIC_NODE_* variables.
func (m *MusicModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Commands returns the slash commands for this module.
func (m *MusicModule) Commands() []*bot.Command {
	return []*bot.Command{
		{Definition: presentation.MusicCommand, Handler: m.handler.HandleMusic},
	}
}

// Components returns nil; the now-playing button is a plain link.
func (m *MusicModule) Components() []*bot.Component {
	return nil
}

// EventHandlers returns the voice handlers feeding the Lavalink handshake.
func (m *MusicModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			if m.lavalink != nil {
				m.lavalink.HandleVoiceServerUpdate(event)
			}
		},
		func(_ *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			if m.lavalink == nil {
				return
			}
			if m.lavalink.HandleVoiceStateUpdate(event) {
				if guildID, err := snowflake.Parse(event.GuildID); err == nil {
					m.service.HandleDisconnected(guildID)
				}
			}
		},
	}
}

// Init initializes the module. Without a session or a configured node the
// commands still register and answer that the player is offline.
func (m *MusicModule) Init(deps bot.ModuleDependencies) error {
	if m.config == nil {
		m.config = &Config{}
	}

	m.repo = infrastructure.NewMemoryRepository()
	var source infrastructure.SettingSource
	if deps.Guilds != nil {
		source = deps.Guilds
	}
	settings := infrastructure.NewConfiguredChannel(source)

	if deps.Session == nil || !m.config.Enabled() {
		slog.Warn("music module initialized without Lavalink, music player offline")
		m.service = application.NewPlayerService(m.repo, nil, nil, nil, nil, settings, nil)
		m.handler = presentation.NewMusicHandler(m.service)
		return nil
	}

	lavalink, err := infrastructure.NewLavalinkAdapter(context.Background(), deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.Address(),
		Password: m.config.NodePassword,
		Secure:   m.config.NodeSecure,
	})
	if err != nil {
		return err
	}
	m.lavalink = lavalink

	m.service = application.NewPlayerService(
		m.repo,
		lavalink,
		lavalink,
		lavalink,
		infrastructure.NewVoiceStates(deps.Session.State),
		settings,
		infrastructure.NewNotifier(deps.Session),
	)
	m.handler = presentation.NewMusicHandler(m.service)

	lavalink.OnTrackEnd(func(ctx context.Context, guildID snowflake.ID, mayStartNext bool) {
		ctx, cancel := context.WithTimeout(ctx, trackEndTimeout)
		defer cancel()
		if err := m.service.HandleTrackEnd(ctx, guildID, mayStartNext); err != nil {
			slog.Error("failed to advance queue", "guild_id", guildID, "error", err)
			if deps.Telemetry != nil {
				deps.Telemetry.CaptureException(err)
			}
		}
	})

	slog.Info("music module initialized with Lavalink")
	return nil
}

// Shutdown leaves every voice channel and closes the node connection.
func (m *MusicModule) Shutdown() error {
	if m.lavalink == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, guildID := range m.repo.Guilds() {
		if err := m.service.Stop(ctx, guildID); err != nil {
			slog.Warn("failed to stop player", "guild_id", guildID, "error", err)
		}
	}

	m.lavalink.Close()
	return nil
}
