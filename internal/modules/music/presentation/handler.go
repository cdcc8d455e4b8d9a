package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/modules/music/application"
)

const (
	colorQueue = 0x5865f2

	// maxQueueText is the longest queue listing that fits in a message.
	maxQueueText = 2000

	offlineMessage      = "Music player is currently offline. Try again later!"
	notConnectedMessage = "The music bot is not currently connected! :x:"
	noChannelMessage    = "You are not in a channel or the default music channel has not been configured!"
	noTrackMessage      = "Unable to locate track. Please try again!"
	joinFailedMessage   = "Something went wrong when trying to connect to the channel! Please try again. :x:"
	emptyQueueMessage   = "There are no songs waiting in the queue! :x:"
	skippedMessage      = "Skipped the current song! :white_check_mark:"
	queueDoneMessage    = "There are no songs remaining in the queue! Goodbye! :wave:"
	stoppedMessage      = "Goodbye! :wave:"
	repeatMessage       = "The current song will replay! :white_check_mark:"
	pausedMessage       = "Music player has been paused! :white_check_mark:"
	resumedMessage      = "Music player has been resumed! :white_check_mark:"
)

// MusicHandler answers /music.
type MusicHandler struct {
	player *application.PlayerService
}

// NewMusicHandler creates a new MusicHandler.
func NewMusicHandler(player *application.PlayerService) *MusicHandler {
	return &MusicHandler{player: player}
}

// HandleMusic dispatches the /music subcommands.
func (h *MusicHandler) HandleMusic(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if !h.player.Online() {
		return bot.RespondContent(r, offlineMessage, true)
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return fmt.Errorf("invalid guild id %q: %w", i.GuildID, err)
	}

	sub, opts := bot.Subcommand(i)
	switch sub {
	case "play":
		return h.play(ctx, i, r, guildID, opts.String("song"))

	case "skip":
		out, err := h.player.Skip(ctx, guildID)
		if err != nil {
			return h.fail(r, err)
		}
		if out.Disconnected {
			return bot.RespondContent(r, queueDoneMessage, false)
		}
		return bot.RespondContent(r, skippedMessage, true)

	case "stop":
		if err := h.player.Stop(ctx, guildID); err != nil {
			return h.fail(r, err)
		}
		return bot.RespondContent(r, stoppedMessage, false)

	case "repeat":
		if err := h.player.Repeat(guildID); err != nil {
			return h.fail(r, err)
		}
		return bot.RespondContent(r, repeatMessage, true)

	case "volume":
		volume, _ := opts.Int("amount")
		if err := h.player.SetVolume(ctx, guildID, int(volume)); err != nil {
			return h.fail(r, err)
		}
		return bot.RespondContent(r, fmt.Sprintf("Music player volume has been changed to %d%%! :white_check_mark:", volume), false)

	case "list":
		return h.list(r, guildID)

	case "pause", "resume":
		paused := sub == "pause"
		if err := h.player.SetPaused(ctx, guildID, paused); err != nil {
			return h.fail(r, err)
		}
		if paused {
			return bot.RespondContent(r, pausedMessage, true)
		}
		return bot.RespondContent(r, resumedMessage, true)
	}

	return fmt.Errorf("unknown music subcommand %q", sub)
}

func (h *MusicHandler) play(
	ctx context.Context,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	guildID snowflake.ID,
	query string,
) error {
	userID, err := snowflake.Parse(bot.InvokerID(i))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	textChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", i.ChannelID, err)
	}

	voiceChannelID, err := h.player.VoiceChannel(guildID, userID)
	if err != nil {
		return bot.RespondContent(r, noChannelMessage, true)
	}

	if err := bot.Defer(r, false); err != nil {
		return err
	}

	out, err := h.player.Play(ctx, application.PlayInput{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		Query:          query,
	})
	switch {
	case errors.Is(err, application.ErrNoTracks):
		return bot.EditContent(r, noTrackMessage)
	case errors.Is(err, application.ErrJoinFailed):
		_ = bot.EditContent(r, joinFailedMessage)
		return err
	case err != nil:
		return err
	}

	if out.Playlist {
		return bot.EditContent(r, fmt.Sprintf("Added %d songs to the queue! :white_check_mark:", len(out.Added)))
	}
	return bot.EditContent(r, fmt.Sprintf("Added %s to the queue! :white_check_mark:", out.Added[0].Title))
}

func (h *MusicHandler) list(r bot.Responder, guildID snowflake.ID) error {
	tracks, err := h.player.Queue(guildID)
	if err != nil {
		return h.fail(r, err)
	}
	if len(tracks) == 0 {
		return bot.RespondContent(r, emptyQueueMessage, true)
	}

	var sb strings.Builder
	for n, t := range tracks {
		fmt.Fprintf(&sb, "%d. %s\n", n+1, t.Title)
	}
	if sb.Len() >= maxQueueText {
		return bot.RespondContent(r, fmt.Sprintf(
			"The queue is too large to display..\n\nYou have %d songs waiting to be played! :white_check_mark:",
			len(tracks),
		), true)
	}

	return bot.RespondEmbed(r, &discordgo.MessageEmbed{
		Title:       "Current Song Queue",
		Description: sb.String(),
		Color:       colorQueue,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Sparrow Music Bot"},
	}, false)
}

// fail answers the errors users can act on and returns the rest.
func (h *MusicHandler) fail(r bot.Responder, err error) error {
	if errors.Is(err, application.ErrNotConnected) {
		return bot.RespondContent(r, notConnectedMessage, true)
	}
	return err
}
