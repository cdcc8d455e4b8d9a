package anilist

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/microcosm-cc/bluemonday"
)

const (
	colorAniList      = 0x02a9ff
	descriptionLength = 500
	iconURL           = "https://anilist.co/img/icons/apple-touch-icon.png"
	notAvailable      = "N/A"
)

var stripPolicy = bluemonday.StrictPolicy()

func author() *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{Name: "Anilist", IconURL: iconURL}
}

// cleanDescription removes markup from an AniList description and cuts it
// to embed size.
func cleanDescription(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return shortText(strings.TrimSpace(text), descriptionLength)
}

func shortText(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}

// coverColor parses an AniList "#rrggbb" color.
func coverColor(hex string) int {
	n, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || hex == "" {
		return colorAniList
	}
	return int(n)
}

// countdown renders seconds as "Xd Xh Xm Xs".
func countdown(seconds int) string {
	d := seconds / 86400
	h := seconds % 86400 / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	return fmt.Sprintf("%dd %dh %dm %ds", d, h, m, s)
}

func statusLabel(status string) string {
	switch status {
	case "RELEASING":
		return "Airing"
	case "NOT_YET_RELEASED":
		return "Not Yet Released"
	default:
		return status
	}
}

func orNA(n int) string {
	if n == 0 {
		return notAvailable
	}
	return strconv.Itoa(n)
}

func percent(n int) string {
	if n == 0 {
		return notAvailable
	}
	return strconv.Itoa(n) + "%"
}

func animeEmbed(m *Media) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	description := "No description currently provided for this Anime."
	if m.Description != "" {
		description = cleanDescription(m.Description)
	}

	season := notAvailable
	if m.Season != "" {
		season = fmt.Sprintf("%s %d", m.Season, m.SeasonYear)
	}

	footer := "Status: " + statusLabel(m.Status)
	if m.Status == "RELEASING" {
		if m.NextAiringEpisode == nil {
			footer += "\nEpisode airing time is not currently available."
		} else {
			footer += fmt.Sprintf("\nEpisode %d airs in %s", m.NextAiringEpisode.Episode, countdown(m.NextAiringEpisode.TimeUntilAiring))
		}
	}

	studios := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		studios = append(studios, s.Name)
	}
	studio := notAvailable
	if len(studios) > 0 {
		studio = strings.Join(studios, ", ")
	}
	footer += "\nAnimated by " + studio

	embed := &discordgo.MessageEmbed{
		Title:       m.DisplayTitle(),
		Description: description,
		URL:         m.SiteURL,
		Author:      author(),
		Color:       coverColor(m.CoverImage.Color),
		Image:       &discordgo.MessageEmbedImage{URL: m.CoverImage.Large},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Episodes", Value: orNA(m.Episodes), Inline: true},
			{Name: "Season", Value: season, Inline: true},
			{Name: "Score", Value: percent(m.AverageScore), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}

	if m.Trailer == nil || m.Trailer.Site != "youtube" {
		return embed, nil
	}
	return embed, []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label: "Trailer Preview",
					Style: discordgo.LinkButton,
					URL:   "https://www.youtube.com/watch?v=" + m.Trailer.ID,
				},
			},
		},
	}
}

func mangaEmbed(m *Media) *discordgo.MessageEmbed {
	description := "No description currently provided for this Manga."
	if m.Description != "" {
		description = cleanDescription(m.Description)
	}

	score := m.AverageScore
	if score == 0 {
		score = m.MeanScore
	}

	footer := "Status: " + m.Status
	if m.StartDate.Year != 0 {
		footer += "\nStart Date: " + fuzzyDate(m.StartDate)
	}
	if m.EndDate.Year != 0 {
		footer += "\nEnd Date: " + fuzzyDate(m.EndDate)
	}

	return &discordgo.MessageEmbed{
		Title:       m.DisplayTitle(),
		Description: description,
		URL:         m.SiteURL,
		Author:      author(),
		Color:       coverColor(m.CoverImage.Color),
		Image:       &discordgo.MessageEmbedImage{URL: m.CoverImage.Large},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Score", Value: percent(score), Inline: true},
			{Name: "Chapters", Value: orNA(m.Chapters), Inline: true},
			{Name: "Volumes", Value: orNA(m.Volumes), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}
}

func fuzzyDate(d FuzzyDate) string {
	if d.Month < 1 || d.Month > 12 {
		return strconv.Itoa(d.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(d.Month), d.Year)
}

func userEmbed(u *User) *discordgo.MessageEmbed {
	score := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64) + "%"
	}

	footer := "Donator: No"
	if u.DonatorTier > 0 {
		footer = "Donator: Yes"
		if u.DonatorBadge != "" && u.DonatorBadge != "Donator" {
			footer += "\nDonator Badge: " + u.DonatorBadge
		}
	}

	anime, manga := u.Statistics.Anime, u.Statistics.Manga
	return &discordgo.MessageEmbed{
		Title:  u.Name,
		URL:    u.SiteURL,
		Author: author(),
		Color:  colorAniList,
		Image:  &discordgo.MessageEmbedImage{URL: u.Avatar.Large},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Anime", Value: strconv.Itoa(anime.Count), Inline: true},
			{Name: "Days Watched", Value: strconv.Itoa(anime.MinutesWatched / 1440), Inline: true},
			{Name: "Anime Mean Score", Value: score(anime.MeanScore), Inline: true},
			{Name: "Total Manga", Value: strconv.Itoa(manga.Count), Inline: true},
			{Name: "Chapters Read", Value: strconv.Itoa(manga.ChaptersRead), Inline: true},
			{Name: "Manga Mean Score", Value: score(manga.MeanScore), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}
}
