package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
)

// voiceConnectionTimeout bounds how long JoinChannel waits for Discord.
const voiceConnectionTimeout = 10 * time.Second

var errNoNode = errors.New("no available Lavalink node")

// TrackEndFunc is called when a track stops playing.
type TrackEndFunc func(ctx context.Context, guildID snowflake.ID, mayStartNext bool)

// LavalinkConfig describes the single Lavalink node.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// voiceGate waits for both halves of a voice handshake.
type voiceGate struct {
	mu        sync.Mutex
	gotState  bool
	gotServer bool
	ready     chan struct{}
}

func newVoiceGate() *voiceGate {
	return &voiceGate{ready: make(chan struct{})}
}

func (g *voiceGate) mark(state bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if state {
		g.gotState = true
	} else {
		g.gotServer = true
	}
	if g.gotState && g.gotServer {
		select {
		case <-g.ready:
		default:
			close(g.ready)
		}
	}
}

// voiceBuffer holds a partial voice handshake until both events arrived,
// so Lavalink never receives an incomplete voice state.
type voiceBuffer struct {
	channelID *snowflake.ID
	sessionID string
	token     string
	endpoint  string
	hasState  bool
	hasServer bool
}

// LavalinkAdapter implements the playback ports on top of DisGoLink.
type LavalinkAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	mu      sync.Mutex
	gates   map[snowflake.ID]*voiceGate
	buffers map[snowflake.ID]*voiceBuffer

	onTrackEnd TrackEndFunc
}

// NewLavalinkAdapter creates the DisGoLink client and connects the node.
// A node that cannot be reached leaves the adapter offline.
func NewLavalinkAdapter(ctx context.Context, session *discordgo.Session, cfg LavalinkConfig) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session: session,
		botID:   botID,
		gates:   make(map[snowflake.ID]*voiceGate),
		buffers: make(map[snowflake.ID]*voiceBuffer),
	}
	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.handleTrackStart),
		disgolink.WithListenerFunc(adapter.handleTrackEnd),
		disgolink.WithListenerFunc(adapter.handleTrackException),
	)

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "sparrow",
		Address:  cfg.Address,
		Password: cfg.Password,
		Secure:   cfg.Secure,
	})
	if err != nil {
		slog.Warn("music node unreachable, music player offline", "address", cfg.Address, "error", err)
		return adapter, nil
	}

	slog.Info("connected to music node, music player ready", "node", node.Config().Name, "address", cfg.Address)
	return adapter, nil
}

// OnTrackEnd registers the callback invoked after every track end.
func (c *LavalinkAdapter) OnTrackEnd(fn TrackEndFunc) {
	c.onTrackEnd = fn
}

// Online reports whether a connected node is available.
func (c *LavalinkAdapter) Online() bool {
	return c.link.BestNode() != nil
}

// Close disconnects from every node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	gate := newVoiceGate()

	c.mu.Lock()
	c.gates[guildID] = gate
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.gates, guildID)
		c.mu.Unlock()
	}()

	if err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true); err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-gate.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return errors.New("timeout waiting for voice connection")
	}
}

func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	if player := c.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild_id", guildID, "error", err)
		}
	}

	if err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

func (c *LavalinkAdapter) Play(ctx context.Context, guildID snowflake.ID, track domain.Track) error {
	player := c.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithEncodedTrack(track.Encoded), lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

func (c *LavalinkAdapter) SetPaused(ctx context.Context, guildID snowflake.ID, paused bool) error {
	player := c.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithPaused(paused)); err != nil {
		return fmt.Errorf("failed to update pause state: %w", err)
	}
	return nil
}

func (c *LavalinkAdapter) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	player := c.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithVolume(volume)); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}

// LoadTracks resolves identifier into playable tracks. Empty results
// return no tracks and no error.
func (c *LavalinkAdapter) LoadTracks(ctx context.Context, identifier string) ([]domain.Track, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, errNoNode
	}

	result, err := node.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		return []domain.Track{toTrack(data)}, nil
	case lavalink.Playlist:
		return toTracks(data.Tracks), nil
	case lavalink.Search:
		return toTracks(data), nil
	case lavalink.Exception:
		return nil, fmt.Errorf("lavalink exception: %s", data.Message)
	default:
		return nil, nil
	}
}

func toTracks(tracks []lavalink.Track) []domain.Track {
	result := make([]domain.Track, len(tracks))
	for i, t := range tracks {
		result[i] = toTrack(t)
	}
	return result
}

func toTrack(t lavalink.Track) domain.Track {
	uri := ""
	if t.Info.URI != nil {
		uri = *t.Info.URI
	}
	return domain.Track{
		Encoded:  t.Encoded,
		Title:    t.Info.Title,
		Author:   t.Info.Author,
		Duration: time.Duration(t.Info.Length) * time.Millisecond,
		URI:      uri,
		IsStream: t.Info.IsStream,
	}
}

// HandleVoiceServerUpdate buffers the voice server half of the handshake.
func (c *LavalinkAdapter) HandleVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	c.mu.Lock()
	buf := c.buffer(guildID)
	buf.token, buf.endpoint, buf.hasServer = event.Token, event.Endpoint, true
	ready := c.takeReady(guildID)
	gate := c.gates[guildID]
	c.mu.Unlock()

	if ready != nil {
		c.forward(guildID, ready)
	}
	if gate != nil {
		gate.mark(false)
	}
}

// HandleVoiceStateUpdate forwards the bot's own voice state. It reports
// true when the bot was disconnected from voice.
func (c *LavalinkAdapter) HandleVoiceStateUpdate(event *discordgo.VoiceStateUpdate) (disconnected bool) {
	if event.UserID != c.botID.String() {
		return false
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return false
	}

	if event.ChannelID == "" {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.mu.Lock()
		delete(c.buffers, guildID)
		c.mu.Unlock()
		return true
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return false
	}

	c.mu.Lock()
	buf := c.buffer(guildID)
	buf.channelID, buf.sessionID, buf.hasState = &channelID, event.SessionID, true
	ready := c.takeReady(guildID)
	gate := c.gates[guildID]
	c.mu.Unlock()

	if ready != nil {
		c.forward(guildID, ready)
	}
	if gate != nil {
		gate.mark(true)
	}
	return false
}

// buffer returns the voice buffer for guildID. Callers hold c.mu.
func (c *LavalinkAdapter) buffer(guildID snowflake.ID) *voiceBuffer {
	buf, ok := c.buffers[guildID]
	if !ok {
		buf = &voiceBuffer{}
		c.buffers[guildID] = buf
	}
	return buf
}

// takeReady removes and returns a complete buffer. Callers hold c.mu.
func (c *LavalinkAdapter) takeReady(guildID snowflake.ID) *voiceBuffer {
	buf := c.buffers[guildID]
	if buf == nil || !buf.hasState || !buf.hasServer {
		return nil
	}
	delete(c.buffers, guildID)
	return buf
}

func (c *LavalinkAdapter) forward(guildID snowflake.ID, buf *voiceBuffer) {
	slog.Debug("forwarding voice handshake to Lavalink", "guild_id", guildID, "channel_id", buf.channelID)
	c.link.OnVoiceStateUpdate(context.Background(), guildID, buf.channelID, buf.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, buf.token, buf.endpoint)
}

func (c *LavalinkAdapter) handleTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild_id", player.GuildID(), "track", event.Track.Info.Title)
}

func (c *LavalinkAdapter) handleTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild_id", player.GuildID(), "reason", event.Reason)
	if c.onTrackEnd != nil {
		c.onTrackEnd(context.Background(), player.GuildID(), event.Reason.MayStartNext())
	}
}

func (c *LavalinkAdapter) handleTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	slog.Warn("track exception", "guild_id", player.GuildID(), "error", event.Exception.Message)
}

var (
	_ application.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ application.VoiceConnection = (*LavalinkAdapter)(nil)
	_ application.TrackResolver   = (*LavalinkAdapter)(nil)
)
