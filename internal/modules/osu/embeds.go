package osu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const colorOsu = 0xE91E63

var numberPrinter = message.NewPrinter(language.English)

// groupDigits formats n with comma thousands separators.
func groupDigits(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

func flagURL(country string) string {
	return "https://flagcdn.com/128x96/" + strings.ToLower(country) + ".png"
}

func profileEmbed(u *User, mode string) *discordgo.MessageEmbed {
	stats := u.Statistics
	if mode == "" {
		mode = u.Playmode
	}
	pp := strconv.FormatFloat(stats.PP, 'f', -1, 64)

	grades := fmt.Sprintf("SS+ %d SS %d S+ %d S %d A %d",
		stats.GradeCounts.SSH, stats.GradeCounts.SS, stats.GradeCounts.SH, stats.GradeCounts.S, stats.GradeCounts.A)

	playstyle := "No playstyle provided"
	if len(u.Playstyle) > 0 {
		playstyle = strings.Join(u.Playstyle, ", ")
	}
	var footer strings.Builder
	if u.IsSupporter {
		footer.WriteString("osu! Supporter\n")
	}
	footer.WriteString("Playstyles: " + playstyle)
	if !u.JoinDate.IsZero() {
		footer.WriteString("\nMember since " + u.JoinDate.Format("January 2, 2006"))
	}

	return &discordgo.MessageEmbed{
		Author:      playerAuthor(u),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL},
		Description: fmt.Sprintf("%s statistics - %spp", mode, pp),
		Color:       colorOsu,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ranked Score", Value: groupDigits(stats.RankedScore), Inline: true},
			{Name: "Accuracy", Value: strconv.FormatFloat(stats.HitAccuracy, 'f', 2, 64) + "%", Inline: true},
			{Name: "Max Combo", Value: strconv.Itoa(stats.MaximumCombo), Inline: true},
			{Name: "Total Score", Value: groupDigits(stats.TotalScore), Inline: true},
			{Name: "Total Hits", Value: groupDigits(stats.TotalHits), Inline: true},
			{Name: "Level", Value: strconv.Itoa(stats.Level.Current), Inline: true},
			{Name: "Play Time", Value: fmt.Sprintf("%d hours", stats.PlayTime/3600), Inline: true},
			{Name: "Play Count", Value: strconv.Itoa(stats.PlayCount), Inline: true},
			{Name: "Medals", Value: strconv.Itoa(len(u.UserAchievements)), Inline: true},
			{Name: "Grades", Value: grades},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer.String()},
	}
}

func playerAuthor(u *User) *discordgo.MessageEmbedAuthor {
	stats := u.Statistics
	return &discordgo.MessageEmbedAuthor{
		Name: fmt.Sprintf("%s - #%s (%s #%s) - %spp",
			u.Username, groupDigits(int64(stats.GlobalRank)), u.CountryCode,
			groupDigits(int64(stats.CountryRank)), groupDigits(int64(stats.PP))),
		IconURL: flagURL(u.CountryCode),
		URL:     fmt.Sprintf("https://osu.ppy.sh/users/%d", u.ID),
	}
}

// gradeLabel renders a score rank the way the osu! client names it.
func gradeLabel(rank string) string {
	switch strings.ToUpper(rank) {
	case "XH", "SSH":
		return "**SS+**"
	case "X", "SS":
		return "**SS**"
	case "SH":
		return "**S+**"
	case "F", "":
		return ":x:"
	default:
		return "**" + strings.ToUpper(rank) + "**"
	}
}

// prettyTime formats seconds as m:ss.
func prettyTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// timeSince names the elapsed time in its largest whole unit.
func timeSince(then, now time.Time) string {
	seconds := int64(now.Sub(then).Seconds())
	units := []struct {
		name   string
		length int64
	}{
		{"years", 31536000},
		{"months", 2592000},
		{"days", 86400},
		{"hours", 3600},
		{"minutes", 60},
	}
	for _, u := range units {
		if seconds > u.length {
			return fmt.Sprintf("%d %s", seconds/u.length, u.name)
		}
	}
	return fmt.Sprintf("%d seconds", max(seconds, 0))
}

func modsLabel(mods []string) string {
	if len(mods) == 0 {
		return "No mods"
	}
	return strings.Join(mods, ",")
}

func hitCounts(score *Score) string {
	st := score.Statistics
	return fmt.Sprintf("%d/%d/%d/%d", st.Count300, st.Count100, st.Count50, st.CountMiss)
}

// playEmbed renders one score. A positive position marks a new personal
// best at that rank.
func playEmbed(u *User, score *Score, attrs DifficultyAttributes, position int, now time.Time) *discordgo.MessageEmbed {
	length := score.Beatmap.TotalLength
	for _, mod := range score.Mods {
		if mod == "DT" || mod == "NC" {
			length = int(float64(length) / 1.5)
			break
		}
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "**☆%.2f** | **Length:** %s | **Mods:** %s\n\n", attrs.StarRating, prettyTime(length), modsLabel(score.Mods))
	if position > 0 {
		fmt.Fprintf(&desc, "🏁 __**Personal Best: #%s**__\n\n", groupDigits(int64(position)))
	}
	fmt.Fprintf(&desc, "%s **Score:** %s **Accuracy:** %.2f%%\n", gradeLabel(score.Rank), groupDigits(score.Score), score.Accuracy*100)
	fmt.Fprintf(&desc, "**%.2fpp**", score.PP)
	if attrs.MaxCombo > 0 && score.MaxCombo == attrs.MaxCombo {
		desc.WriteString(" (**Full Combo**)")
	}
	fmt.Fprintf(&desc, "\n[**%dx**/%dx] (%s)", score.MaxCombo, attrs.MaxCombo, hitCounts(score))

	embed := &discordgo.MessageEmbed{
		Author:      playerAuthor(u),
		Title:       score.Beatmapset.Title + " - " + score.Beatmap.Version,
		URL:         score.Beatmap.URL,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: score.Beatmapset.Covers.List},
		Description: desc.String(),
		Color:       colorOsu,
	}
	if position > 0 {
		embed.Timestamp = bot.Timestamp(now)
	} else {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Played " + timeSince(score.CreatedAt, now) + " ago"}
	}
	return embed
}

// topEmbed lists scores with attrs holding the difficulty of each score.
func topEmbed(u *User, scores []Score, attrs []DifficultyAttributes, now time.Time) *discordgo.MessageEmbed {
	var desc strings.Builder
	for idx := range scores {
		score := &scores[idx]
		fmt.Fprintf(&desc, "**%d.** [%s](%s) **Mods:** %s\n", idx+1, score.Beatmapset.Title, score.Beatmap.URL, modsLabel(score.Mods))
		fmt.Fprintf(&desc, "%s **%.0fpp** - %.2f%% - **☆%.2f**\n", gradeLabel(score.Rank), score.PP, score.Accuracy*100, attrs[idx].StarRating)
		fmt.Fprintf(&desc, "[**%dx**/%dx] (%s) - %s ago\n", score.MaxCombo, attrs[idx].MaxCombo, hitCounts(score), timeSince(score.CreatedAt, now))
	}

	return &discordgo.MessageEmbed{
		Author:      playerAuthor(u),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL},
		Description: desc.String(),
		Color:       colorOsu,
	}
}

func beatmapEmbed(b *Beatmap, attrs DifficultyAttributes, mods []string) *discordgo.MessageEmbed {
	set := b.Beatmapset
	if set == nil {
		set = &Beatmapset{}
	}

	modText := "No Mods"
	if len(mods) > 0 {
		modText = "+" + strings.Join(mods, "")
	}

	info := fmt.Sprintf("**Combo:** x%d **BPM:** %s\n**AR:** %s **OD:** %s **CS:** %s **HP:** %s\n**Objects:** %d **Spinners:** %d",
		b.MaxCombo, trimFloat(b.BPM), trimFloat(b.AR), trimFloat(b.OD), trimFloat(b.CS), trimFloat(b.HP),
		b.CountCircles+b.CountSliders+b.CountSpinners, b.CountSpinners)

	footer := fmt.Sprintf("❤ %d | %s", set.FavouriteCount, set.Status)
	if set.RankedDate != nil {
		footer += " | Approved " + set.RankedDate.Format("1/2/2006")
	}
	footer += " | Mapped by " + set.Creator

	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: set.Title + " - " + set.Artist,
			URL:  b.URL,
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: set.Covers.List},
		Image:     &discordgo.MessageEmbedImage{URL: set.Covers.Cover},
		Description: fmt.Sprintf("**☆%.2f** | **Length:** %s | [Song Preview](https:%s) | **%s**",
			attrs.StarRating, prettyTime(b.TotalLength), set.PreviewURL, modText),
		Color: colorOsu,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "[" + b.Version + "]", Value: info, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}
}

func trackListEmbed(players []string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Currently tracked osu! players ( %d out of %d )", len(players), TrackLimit),
		Description: strings.Join(players, "\n"),
		Footer:      bot.Footer(),
		Color:       colorOsu,
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
