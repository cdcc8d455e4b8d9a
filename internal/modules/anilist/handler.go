package anilist

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/storage"
)

const (
	maxChoices    = 25
	maxChoiceText = 100

	noResultsChoice = "No results found. Updating from AniList"
	placeholder     = "N/A"
)

var anilistCommand = &discordgo.ApplicationCommand{
	Name:        "anilist",
	Description: "This command group allows you to execute commands that interact with the AniList API.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Search the AniList database for any type of media. ( Manga / Anime )",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Manga", Value: "manga"},
				{Name: "Anime", Value: "anime"},
				{Name: "User", Value: "user"},
			},
		},
		{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "name",
			Description:  "Name of the media that you are searching for.",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func (m *AnilistModule) handleAnilist(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)
	kind := opts.String("type")
	name := searchTerm(opts.String("name"), kind)

	if name == "" || name == placeholder {
		return bot.RespondContent(r, notFoundMessage(opts.String("name")), true)
	}

	if err := bot.Defer(r, false); err != nil {
		return err
	}

	var (
		embed      *discordgo.MessageEmbed
		components []discordgo.MessageComponent
	)
	switch kind {
	case "user":
		user, err := m.api.User(ctx, name)
		if err != nil {
			return m.lookupFailed(r, name, err)
		}
		embed = userEmbed(user)

	case "anime", "manga":
		search := m.api.SearchAnime
		if kind == "manga" {
			search = m.api.SearchManga
		}
		media, err := search(ctx, name)
		if err != nil {
			return m.lookupFailed(r, name, err)
		}
		if media.IsAdult && !m.isNSFWChannel(i.ChannelID) {
			return bot.EditContent(r, fmt.Sprintf(
				"This %s is NSFW, but you are not in a NSFW channel. Please try again in a NSFW channel!", kind))
		}
		if kind == "anime" {
			embed, components = animeEmbed(media)
		} else {
			embed = mangaEmbed(media)
		}

	default:
		return fmt.Errorf("unknown anilist type %q", kind)
	}

	embeds := []*discordgo.MessageEmbed{embed}
	edit := &discordgo.WebhookEdit{Embeds: &embeds}
	if len(components) > 0 {
		edit.Components = &components
	}
	return r.Edit(edit)
}

func (m *AnilistModule) lookupFailed(r bot.Responder, name string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return bot.EditContent(r, notFoundMessage(name))
	}
	_ = bot.EditContent(r, "Unable to reach AniList right now. Please try again later! :x:")
	return err
}

func notFoundMessage(name string) string {
	return fmt.Sprintf("No results were found for **%s**. :x:", name)
}

// isNSFWChannel reports whether channelID allows adult content. Unknown
// channels are treated as safe-for-work.
func (m *AnilistModule) isNSFWChannel(channelID string) bool {
	if m.channels == nil {
		return false
	}
	ch, err := m.channels.Channel(channelID)
	if err != nil {
		return false
	}
	return ch.NSFW
}

// searchTerm extracts a name from an anilist.co link, or returns input.
// User links look like /user/<name>, media links like /anime/<id>/<slug>.
func searchTerm(input, kind string) string {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return input
	}

	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return input
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case kind == "user" && len(segments) >= 2:
		return segments[1]
	case kind != "user" && len(segments) >= 3:
		return strings.ReplaceAll(segments[2], "-", " ")
	default:
		return input
	}
}

func (m *AnilistModule) handleAutocomplete(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	opts := bot.Options(i.ApplicationCommandData().Options)

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	mediaType := ""
	switch opts.String("type") {
	case "anime":
		mediaType = storage.MediaAnime
	case "manga":
		mediaType = storage.MediaManga
	}

	query := ""
	if focused := opts.Focused(); focused != nil {
		query, _ = focused.Value.(string)
	}

	if mediaType != "" && query != "" && m.titles != nil {
		rows, err := m.titles.Search(ctx, mediaType, query, maxChoices)
		if err != nil {
			return err
		}
		choices = titleChoices(rows)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}

// titleChoices turns title rows into at most maxChoices choices.
func titleChoices(rows []storage.Media) []*discordgo.ApplicationCommandOptionChoice {
	if len(rows) == 0 {
		return []*discordgo.ApplicationCommandOptionChoice{{Name: noResultsChoice, Value: placeholder}}
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(rows), maxChoices))
	for _, row := range rows {
		if len(choices) == maxChoices {
			break
		}
		title := row.Name
		if title == placeholder || title == "" {
			title = row.AltName
		}
		title = cut(title, maxChoiceText)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: title, Value: title})
	}
	return choices
}

func cut(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
