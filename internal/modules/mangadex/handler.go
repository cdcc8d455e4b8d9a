package mangadex

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
)

const (
	msgGuildOnly      = "This command can only be used in a server! :x:"
	msgMissingManga   = "You must provide a manga to follow/unfollow! :x:"
	msgUnknownManga   = "The manga specified does not exist on MangaDex! :x:"
	msgAlreadyFollow  = "You are already following this Manga! :x:"
	msgNotFollowing   = "You are not following this Manga! :x:"
	msgNoFollows      = "You are not following any manga. Try following something! :x:"
	msgUnfollowedAll  = "All currently tracked manga has now been unfollowed! :white_check_mark:"
	msgFollowed       = " is now being followed! :white_check_mark:"
	msgUnfollowed     = " is no longer being followed! :white_check_mark:"
	msgMangaDexFailed = "Something went wrong while contacting MangaDex, try again later! :x:"
)

var mdCommand = &discordgo.ApplicationCommand{
	Name:        "md",
	Description: "Interact with the MangaDex API!",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "follow",
			Description: "Follow a specific manga for latest chapter updates!",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "manga",
					Description: "Enter the MangaDex ID or URL of the Manga you wish to follow.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "unfollow",
			Description: "Stop following a specific manga to discontinue all related updates!",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "manga",
					Description: "Enter the MangaDex ID or URL of the Manga you wish to unfollow.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "all",
					Description: "This will unfollow all tracked manga.",
				},
			},
		},
	},
}

func (m *MangaDexModule) handleMD(
	ctx context.Context,
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	if bot.IsDMInteraction(i) {
		return bot.RespondContent(r, msgGuildOnly, true)
	}

	sub, opts := bot.Subcommand(i)
	userID := bot.InvokerID(i)

	if sub == "unfollow" && opts.Bool("all") {
		if err := unfollowAll(ctx, m.guilds, i.GuildID, userID); err != nil {
			return err
		}
		return bot.RespondContent(r, msgUnfollowedAll, true)
	}

	id := mangaID(opts.String("manga"))
	if id == "" {
		return bot.RespondContent(r, msgMissingManga, true)
	}

	if err := bot.Defer(r, true); err != nil {
		return err
	}

	manga, err := m.api.Manga(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return bot.EditContent(r, msgUnknownManga)
	}
	if err != nil {
		_ = bot.EditContent(r, msgMangaDexFailed)
		return err
	}

	if sub == "unfollow" {
		err := unfollow(ctx, m.guilds, i.GuildID, userID, manga.ID)
		switch {
		case errors.Is(err, ErrNoFollows):
			return bot.EditContent(r, msgNoFollows)
		case errors.Is(err, ErrNotFollowing):
			return bot.EditContent(r, msgNotFollowing)
		case err != nil:
			return err
		}
		return bot.EditContent(r, manga.Title()+msgUnfollowed)
	}

	err = follow(ctx, m.guilds, i.GuildID, userID, manga.ID)
	switch {
	case errors.Is(err, ErrAlreadyFollowing):
		return bot.EditContent(r, msgAlreadyFollow)
	case err != nil:
		return err
	}
	return bot.EditContent(r, manga.Title()+msgFollowed)
}
