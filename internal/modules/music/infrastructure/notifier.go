package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
	"github.com/moyogii/sparrowbot/internal/modules/music/domain"
)

// MessageAPI is the subset of *discordgo.Session the notifier needs.
type MessageAPI interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts playback messages to Discord text channels.
type Notifier struct {
	api MessageAPI
}

// NewNotifier creates a new Notifier.
func NewNotifier(api MessageAPI) *Notifier {
	return &Notifier{api: api}
}

// NowPlayingContent is the text of the now-playing message.
func NowPlayingContent(track domain.Track) string {
	// The trailing U+2800 keeps Discord from trimming the emoji spacing.
	return fmt.Sprintf("Now playing: %s! :white_check_mark:⠀", track.Label())
}

// nowPlayingComponents returns a link button to the track. Tracks without
// a URI get no components.
func nowPlayingComponents(track domain.Track) []discordgo.MessageComponent {
	if track.URI == "" {
		return []discordgo.MessageComponent{}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: track.Label(),
					Style: discordgo.LinkButton,
					URL:   track.URI,
				},
			},
		},
	}
}

// NowPlaying edits the previous now-playing message when there is one and
// falls back to posting a new message.
func (n *Notifier) NowPlaying(ctx context.Context, channelID, messageID snowflake.ID, track domain.Track) (snowflake.ID, error) {
	content := NowPlayingContent(track)
	components := nowPlayingComponents(track)

	if messageID != 0 {
		edit := discordgo.NewMessageEdit(channelID.String(), messageID.String()).SetContent(content)
		edit.Components = &components
		_, err := n.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
		if err == nil {
			return messageID, nil
		}
		slog.Debug("failed to edit now playing message, sending a new one", "channel_id", channelID, "error", err)
	}

	msg, err := n.api.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content:    content,
		Components: components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	return snowflake.Parse(msg.ID)
}

// Send posts a plain message.
func (n *Notifier) Send(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := n.api.ChannelMessageSend(channelID.String(), content, discordgo.WithContext(ctx))
	return err
}

var _ application.Notifier = (*Notifier)(nil)
