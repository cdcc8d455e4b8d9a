package osu

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	msgDisabled      = "osu! account linking is not configured on this bot. :x:"
	msgNotLinked     = "It looks like you are not authenticated. Try running /osu connect and try again!"
	msgNoAccount     = "You do not have a osu! account authenticated with SparrowBot!"
	msgUnlinked      = "Removed your osu! account from SparrowBot!"
	msgUnlinkedDM    = "Sad to see you go. :wave:, We have removed your osu! account from SparrowBot!"
	msgNoPlayer      = "Unable to find that osu! player. :x:"
	msgRefreshFailed = "Connection failed, please run /osu connect and try again!"
	msgAPIFailed     = "Something unexpected occured when trying to obtain osu! API data, try again later!"
	msgNoRecent      = "This player does not have any recent plays in the last 24 hours."
	msgNoTop         = "This player does not have any top plays yet."
	msgNoBeatmap     = "No beatmap found, please try another osu! beatmap link! :x:"

	msgGuildOnly        = "This command is not supported in DMs. :x:"
	msgNoAccess         = "You do not have access to this command. :x:"
	msgTrackingDisabled = "osu! tracking is not configured on this bot. :x:"
	msgTrackNoPlayer    = "Could not find the player provided. Please try again! :x:"
	msgTrackLimit       = "You have the maximum number of allowed osu! players tracked. Please un-track somebody and try again! :x:"
	msgAlreadyTracked   = "%s is already being tracked! :x:"
	msgTracked          = "%s is now being tracked! :white_check_mark:"
	msgNobodyTracked    = "Nobody is being tracked in this Discord! :x:"
	msgUntracked        = "%s is no longer being tracked! :white_check_mark:"
	msgNotTracked       = "%s is not being tracked! :x:"

	connectSteps = "# Here are the steps to connect your osu! account with SparrowBot.\n\n" +
		"1. Press the button below and authorize SparrowBot on the osu! website.\n\n" +
		"**After authenticating, you can use all osu! related commands within SparrowBot.**\n\n" +
		"*SparrowBot is not affiliated with osu! in any way. You can disconnect your account through the osu! website or with /osu disconnect at any time.*"
)

var osuCommand = &discordgo.ApplicationCommand{
	Name:        "osu",
	Description: "Interact with osu! with these commands!",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "connect",
			Description: "Connect your osu! account to your Discord account.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "disconnect",
			Description: "Disconnect your osu! account from your Discord account.",
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "profile",
			Description: "Display information about a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id. ( No input will display your own profile )",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mode",
					Description: "Enter the mode that you want to view.",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "osu!", Value: "osu"},
						{Name: "osu!taiko", Value: "taiko"},
						{Name: "osu!catch", Value: "fruits"},
						{Name: "osu!mania", Value: "mania"},
					},
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "recent",
			Description: "Display the most recent play of a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id. ( No input will display your own plays )",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "rs",
			Description: "Display the most recent play of a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id. ( No input will display your own plays )",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "top",
			Description: "Display the top 10 plays of a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id. ( No input will display your own plays )",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "beatmap",
			Description: "Display information about a osu! beatmap.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "link",
					Description: "Enter the osu! beatmap link.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "mods",
					Description: "Enter the mods you would like to use with the beatmap. (hd, hr, hdhr, dt)",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "track",
			Description: "Track the new top plays of a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "untrack",
			Description: "Stop tracking a osu! player.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Enter the player username or id.",
					Required:    true,
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "tracklist",
			Description: "Display the osu! players tracked in this Discord.",
		},
	},
}

func (m *OsuModule) handleOsu(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	userID := bot.InvokerID(i)
	sub, opts := bot.Subcommand(i)
	switch sub {
	case "track", "untrack", "tracklist":
		return m.handleTracking(ctx, i, sub, playerArgument(opts.String("player")), r)
	}

	linker := m.linker.Load()
	if linker == nil {
		return bot.RespondContent(r, msgDisabled, true)
	}

	switch sub {
	case "connect":
		return m.connect(ctx, linker, userID, r)
	case "disconnect":
		return m.disconnect(ctx, linker, userID, i.GuildID == "", r)
	case "profile":
		return m.profile(ctx, linker, userID, playerArgument(opts.String("player")), opts.String("mode"), r)
	case "recent", "rs":
		return m.recent(ctx, linker, userID, playerArgument(opts.String("player")), r)
	case "top":
		return m.top(ctx, linker, userID, playerArgument(opts.String("player")), r)
	case "beatmap":
		return m.beatmap(ctx, linker, userID, opts.String("link"), opts.String("mods"), r)
	default:
		return fmt.Errorf("unknown osu subcommand %q", sub)
	}
}

func (m *OsuModule) connect(ctx context.Context, linker *Linker, userID string, r bot.Responder) error {
	authURL, err := linker.AuthURL(ctx, userID)
	if err != nil {
		return err
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: connectSteps,
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{Label: "Connect osu! account", Style: discordgo.LinkButton, URL: authURL},
					},
				},
			},
		},
	})
}

func (m *OsuModule) disconnect(ctx context.Context, linker *Linker, userID string, dm bool, r bot.Responder) error {
	err := linker.Unlink(ctx, userID)
	switch {
	case errors.Is(err, ErrNotLinked):
		return bot.RespondContent(r, msgNoAccount, true)
	case err != nil:
		return err
	case dm:
		return bot.RespondContent(r, msgUnlinkedDM, true)
	default:
		return bot.RespondContent(r, msgUnlinked, true)
	}
}

func (m *OsuModule) profile(ctx context.Context, linker *Linker, userID, player, mode string, r bot.Responder) error {
	if err := bot.Defer(r, false); err != nil {
		return err
	}

	user, err := linker.Profile(ctx, userID, player, mode)
	if handled, err := editFailure(r, err); handled {
		return err
	}
	return bot.EditEmbed(r, profileEmbed(user, mode))
}

func (m *OsuModule) recent(ctx context.Context, linker *Linker, userID, player string, r bot.Responder) error {
	if err := bot.Defer(r, false); err != nil {
		return err
	}

	var (
		user  *User
		score *Score
		attrs DifficultyAttributes
	)
	err := linker.Do(ctx, userID, func(api *API, tok *oauth2.Token, own string) error {
		if player == "" {
			player = own
		}
		var err error
		if user, err = api.User(ctx, tok, player, ""); err != nil {
			return err
		}
		scores, err := api.Scores(ctx, tok, user.ID, ScoresRecent, 1)
		if err != nil || len(scores) == 0 {
			return err
		}
		score = &scores[0]
		attrs = attributesOrDefault(ctx, api, tok, score)
		return nil
	})
	if handled, err := editFailure(r, err); handled {
		return err
	}
	if score == nil {
		return bot.EditContent(r, msgNoRecent)
	}
	return bot.EditEmbed(r, playEmbed(user, score, attrs, 0, time.Now()))
}

// topAttributeWorkers bounds the concurrent difficulty lookups of /osu top.
const topAttributeWorkers = 4

func (m *OsuModule) top(ctx context.Context, linker *Linker, userID, player string, r bot.Responder) error {
	if err := bot.Defer(r, false); err != nil {
		return err
	}

	var (
		user   *User
		scores []Score
		attrs  []DifficultyAttributes
	)
	err := linker.Do(ctx, userID, func(api *API, tok *oauth2.Token, own string) error {
		if player == "" {
			player = own
		}
		var err error
		if user, err = api.User(ctx, tok, player, ""); err != nil {
			return err
		}
		if scores, err = api.Scores(ctx, tok, user.ID, ScoresBest, 10); err != nil {
			return err
		}

		attrs = make([]DifficultyAttributes, len(scores))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(topAttributeWorkers)
		for idx := range scores {
			g.Go(func() error {
				attrs[idx] = attributesOrDefault(gctx, api, tok, &scores[idx])
				return nil
			})
		}
		return g.Wait()
	})
	if handled, err := editFailure(r, err); handled {
		return err
	}
	if len(scores) == 0 {
		return bot.EditContent(r, msgNoTop)
	}
	return bot.EditEmbed(r, topEmbed(user, scores, attrs, time.Now()))
}

func (m *OsuModule) beatmap(ctx context.Context, linker *Linker, userID, link, modArg string, r bot.Responder) error {
	id, ok := beatmapID(link)
	if !ok {
		return bot.RespondContent(r, msgNoBeatmap, true)
	}
	mods := parseMods(modArg)

	if err := bot.Defer(r, false); err != nil {
		return err
	}

	var (
		beatmap *Beatmap
		attrs   DifficultyAttributes
	)
	err := linker.Do(ctx, userID, func(api *API, tok *oauth2.Token, _ string) error {
		var err error
		if beatmap, err = api.Beatmap(ctx, tok, id); err != nil {
			return err
		}
		attrs = attributesOrDefault(ctx, api, tok, &Score{Beatmap: *beatmap, Mods: mods})
		return nil
	})
	if errors.Is(err, ErrBeatmapNotFound) {
		return bot.EditContent(r, msgNoBeatmap)
	}
	if handled, err := editFailure(r, err); handled {
		return err
	}
	return bot.EditEmbed(r, beatmapEmbed(beatmap, attrs, mods))
}

func (m *OsuModule) handleTracking(ctx context.Context, i *discordgo.InteractionCreate, sub, player string, r bot.Responder) error {
	if bot.IsDMInteraction(i) {
		return bot.RespondContent(r, msgGuildOnly, true)
	}

	if sub == "tracklist" {
		players := trackedPlayers(m.guilds, i.GuildID)
		if len(players) == 0 {
			return bot.RespondContent(r, msgNobodyTracked, true)
		}
		return bot.RespondEmbed(r, trackListEmbed(players), false)
	}

	if !bot.HasModPermissions(i, m.guilds, false) {
		return bot.RespondContent(r, msgNoAccess, true)
	}
	tracker := m.tracker.Load()
	if tracker == nil {
		return bot.RespondContent(r, msgTrackingDisabled, true)
	}

	if sub == "untrack" {
		err := tracker.Untrack(ctx, i.GuildID, player)
		switch {
		case errors.Is(err, ErrNotTracked):
			return bot.RespondContent(r, fmt.Sprintf(msgNotTracked, player), true)
		case err != nil:
			return err
		}
		return bot.RespondContent(r, fmt.Sprintf(msgUntracked, player), false)
	}

	user, err := tracker.Resolve(ctx, player)
	if errors.Is(err, ErrPlayerNotFound) {
		return bot.RespondContent(r, msgTrackNoPlayer, true)
	}
	if err != nil {
		return err
	}

	err = tracker.Track(ctx, i.GuildID, user.Username)
	switch {
	case errors.Is(err, ErrAlreadyTracked):
		return bot.RespondContent(r, fmt.Sprintf(msgAlreadyTracked, user.Username), true)
	case errors.Is(err, ErrTrackLimit):
		return bot.RespondContent(r, msgTrackLimit, true)
	case err != nil:
		return err
	}
	return bot.RespondContent(r, fmt.Sprintf(msgTracked, user.Username), false)
}

// editFailure answers a deferred command whose osu! request failed. It
// reports false when err is nil.
func editFailure(r bot.Responder, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrNotLinked):
		return true, bot.EditContent(r, msgNotLinked)
	case errors.Is(err, ErrPlayerNotFound):
		return true, bot.EditContent(r, msgNoPlayer)
	case errors.Is(err, ErrRefreshFailed):
		return true, bot.EditContent(r, msgRefreshFailed)
	default:
		_ = bot.EditContent(r, msgAPIFailed)
		return true, err
	}
}

// playerArgument accepts a username, an id or a profile link.
func playerArgument(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		arg = strings.TrimRight(arg, "/")
		arg = arg[strings.LastIndex(arg, "/")+1:]
	}
	return arg
}

// beatmapID extracts the difficulty id from a beatmapset link such as
// https://osu.ppy.sh/beatmapsets/1#osu/2.
func beatmapID(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if !strings.HasPrefix(link, "https://osu.ppy.sh/beatmapsets/") {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil || u.Fragment == "" {
		return "", false
	}
	id := u.Fragment[strings.LastIndex(u.Fragment, "/")+1:]
	if id == "" || strings.Trim(id, "0123456789") != "" {
		return "", false
	}
	return id, true
}

var knownMods = []string{"NF", "EZ", "TD", "HD", "HR", "SD", "DT", "RX", "HT", "NC", "FL", "AP", "SO", "PF"}

// parseMods reads an acronym string such as "hdhr". Unknown and repeated
// acronyms are dropped.
func parseMods(arg string) []string {
	arg = strings.ToUpper(strings.NewReplacer(" ", "", "+", "", ",", "").Replace(arg))
	var mods []string
	for idx := 0; idx+2 <= len(arg); idx += 2 {
		mod := arg[idx : idx+2]
		if slices.Contains(knownMods, mod) && !slices.Contains(mods, mod) {
			mods = append(mods, mod)
		}
	}
	return mods
}
