package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
)

const (
	invalidSettingMessage  = "You have not provided a valid config setting."
	disabledSettingMessage = "This option is currently disabled. :x:"
	invalidInputMessage    = "You have specified an invalid input type."
	notSetValue            = "Not set"
)

func (m *CoreModule) handleConfig(
	ctx context.Context,
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	sub, opts := bot.Subcommand(i)

	if sub == "help" {
		return bot.RespondContent(r, configHelp(), false)
	}

	entry, ok := guildconfig.LookupOption(guildconfig.Key(opts.String("setting")))
	if !ok {
		return bot.RespondContent(r, invalidSettingMessage, true)
	}
	if entry.Disabled {
		return bot.RespondContent(r, disabledSettingMessage, true)
	}

	switch sub {
	case "set":
		value, err := m.config.SetValue(ctx, entry.Key, opts.String("value"), i.GuildID)
		if errors.Is(err, guildconfig.ErrInvalidValue) {
			return bot.RespondContent(r, invalidInputMessage, true)
		}
		if err != nil {
			return fmt.Errorf("failed to set %s: %w", entry.Key, err)
		}
		return bot.RespondContent(r,
			fmt.Sprintf("Successfully set the value of **%s** to **%s**.", entry.Key, displayValue(value)),
			true,
		)

	case "get":
		value, _ := m.config.GetValue(entry.Key, i.GuildID)
		return bot.RespondContent(r,
			fmt.Sprintf("```yaml\n%s = %s```", entry.Key, displayValue(value)),
			false,
		)

	default:
		return fmt.Errorf("unknown config subcommand %q", sub)
	}
}

func displayValue(v guildconfig.Value) string {
	if v.IsUnset() {
		return notSetValue
	}
	return v.String()
}

func configHelp() string {
	var b strings.Builder
	b.WriteString("```yaml\n[SparrowBot Config Values]\n\n")
	for _, e := range guildconfig.ListedEntries() {
		fmt.Fprintf(&b, "Name: %s\nDescription: %s\n\n", e.Name, e.Description)
	}
	b.WriteString("```")
	return b.String()
}
