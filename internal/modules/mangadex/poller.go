package mangadex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

const (
	pollInterval = 300 * time.Second
	// pollWindow matches pollInterval so each chapter is announced once.
	pollWindow = 5 * time.Minute
	coverURL   = "https://uploads.mangadex.org/covers/"
	chapterURL = "https://mangadex.org/chapter/"
)

// Messenger sends direct messages.
type Messenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Source is the part of the MangaDex API the poller reads.
type Source interface {
	Manga(ctx context.Context, id string) (*Manga, error)
	LatestChapter(ctx context.Context, id string) (*Chapter, error)
	LatestCover(ctx context.Context, id string) (*Cover, error)
}

// release is a freshly published chapter ready to announce.
type release struct {
	manga   *Manga
	chapter *Chapter
	cover   *Cover
}

// Poller direct messages followers when a followed manga gets a new
// English chapter.
type Poller struct {
	api     Source
	guilds  *guildconfig.Store
	discord Messenger
	now     func() time.Time
}

// NewPoller creates a Poller.
func NewPoller(api Source, guilds *guildconfig.Store, discord Messenger) *Poller {
	return &Poller{
		api:     api,
		guilds:  guilds,
		discord: discord,
		now:     time.Now,
	}
}

// Run polls every guild until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll checks every followed manga once and notifies its followers. Each
// manga is fetched at most once per poll.
func (p *Poller) Poll(ctx context.Context) {
	checked := make(map[string]*release)
	now := p.now()

	for _, guildID := range p.guilds.GuildIDs() {
		for _, f := range followList(p.guilds, guildID) {
			for _, id := range f.Manga {
				if ctx.Err() != nil {
					return
				}

				rel, seen := checked[id]
				if !seen {
					var err error
					rel, err = p.check(ctx, id, now)
					if err != nil {
						slog.Warn("failed to check followed manga",
							"guild_id", guildID,
							"manga_id", id,
							"error", err,
						)
					}
					checked[id] = rel
				}
				if rel == nil {
					continue
				}

				if err := p.notify(f.DiscordID, rel, now); err != nil {
					slog.Warn("failed to send chapter notification",
						"user_id", f.DiscordID,
						"manga_id", id,
						"error", err,
					)
				}
			}
		}
	}
}

// check returns the latest chapter of manga id when it was published
// within the poll window, and nil otherwise.
func (p *Poller) check(ctx context.Context, id string, now time.Time) (*release, error) {
	chapter, err := p.api.LatestChapter(ctx, id)
	if errors.Is(err, ErrNoChapters) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	age := now.Sub(chapter.Attributes.PublishAt)
	if age <= 0 || age >= pollWindow {
		return nil, nil
	}

	manga, err := p.api.Manga(ctx, id)
	if err != nil {
		return nil, err
	}
	cover, err := p.api.LatestCover(ctx, id)
	if err != nil {
		return nil, err
	}
	return &release{manga: manga, chapter: chapter, cover: cover}, nil
}

func (p *Poller) notify(userID string, rel *release, now time.Time) error {
	channel, err := p.discord.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	_, err = p.discord.ChannelMessageSendComplex(channel.ID, chapterMessage(rel, now))
	if isClosedDM(err) {
		slog.Debug("follower does not accept direct messages", "user_id", userID)
		return nil
	}
	return err
}

func chapterMessage(rel *release, now time.Time) *discordgo.MessageSend {
	number := rel.chapter.Attributes.Chapter
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       rel.manga.Title() + " - New chapter available!",
			Description: "Chapter " + number + " is now available to read!",
			Image:       &discordgo.MessageEmbedImage{URL: coverURL + rel.manga.ID + "/" + rel.cover.Attributes.FileName},
			Timestamp:   bot.Timestamp(now),
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: "Link - Chapter " + number,
					Style: discordgo.LinkButton,
					URL:   chapterURL + rel.chapter.ID,
				},
			}},
		},
	}
}

func isClosedDM(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Message != nil &&
		restErr.Message.Code == discordgo.ErrCodeCannotSendMessagesToThisUser
}
