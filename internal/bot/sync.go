package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/telemetry"
)

// CommandOverwriter replaces the registered command set of a scope.
// *discordgo.Session satisfies it.
type CommandOverwriter interface {
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		commands []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
}

// Partition is the payload for one sync scope. An empty GuildID is global.
type Partition struct {
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

// Synchronizer uploads the command registry to Discord.
type Synchronizer struct {
	client   CommandOverwriter
	reporter telemetry.Reporter
	metrics  *Metrics
}

// NewSynchronizer creates a Synchronizer. A nil reporter logs only.
func NewSynchronizer(client CommandOverwriter, reporter telemetry.Reporter, metrics *Metrics) *Synchronizer {
	if reporter == nil {
		reporter = telemetry.LogReporter{}
	}
	return &Synchronizer{
		client:   client,
		reporter: reporter,
		metrics:  metrics,
	}
}

// Sync overwrites each partition in turn. A failed partition is reported
// and the rest are still attempted.
func (s *Synchronizer) Sync(appID string, commands []*Command) error {
	var errs []error
	for _, p := range BuildPartitions(commands) {
		scope := p.GuildID
		if scope == "" {
			scope = "global"
		}

		if _, err := s.client.ApplicationCommandBulkOverwrite(appID, p.GuildID, p.Commands); err != nil {
			err = fmt.Errorf("failed to sync %s commands: %w", scope, err)
			slog.Error("failed to sync commands", "scope", scope, "error", err)
			s.reporter.CaptureException(err)
			s.metrics.observeSyncFailure()
			errs = append(errs, err)
			continue
		}
		slog.Info("synced commands", "scope", scope, "count", len(p.Commands))
	}
	return errors.Join(errs...)
}

// BuildPartitions groups commands by scope: global first, then guilds in
// ascending id order. Within a partition commands keep their given order.
// Disabled commands are left out.
func BuildPartitions(commands []*Command) []Partition {
	global := make([]*discordgo.ApplicationCommand, 0, len(commands))
	guilds := make(map[string][]*discordgo.ApplicationCommand)

	for _, cmd := range commands {
		if cmd == nil || cmd.Definition == nil || cmd.Disabled {
			continue
		}
		payload := commandPayload(cmd)
		if cmd.GuildID == "" {
			global = append(global, payload)
			continue
		}
		guilds[cmd.GuildID] = append(guilds[cmd.GuildID], payload)
	}

	partitions := []Partition{{Commands: global}}

	guildIDs := make([]string, 0, len(guilds))
	for id := range guilds {
		guildIDs = append(guildIDs, id)
	}
	slices.Sort(guildIDs)
	for _, id := range guildIDs {
		partitions = append(partitions, Partition{GuildID: id, Commands: guilds[id]})
	}
	return partitions
}

// commandPayload returns a copy of the command definition ready for upload.
func commandPayload(cmd *Command) *discordgo.ApplicationCommand {
	payload := *cmd.Definition
	payload.Options = copyOptions(cmd.Definition.Options)

	if payload.DMPermission == nil {
		dm := cmd.DMAllowed
		payload.DMPermission = &dm
	}

	switch cmd.Kind() {
	case discordgo.UserApplicationCommand, discordgo.MessageApplicationCommand:
		payload.Description = ""
		payload.Options = nil
	}

	if payload.Name == ConfigCommandName {
		fillSettingChoices(payload.Options)
	}
	return &payload
}

func copyOptions(options []*discordgo.ApplicationCommandOption) []*discordgo.ApplicationCommandOption {
	if options == nil {
		return nil
	}
	result := make([]*discordgo.ApplicationCommandOption, len(options))
	for i, opt := range options {
		copied := *opt
		copied.Options = copyOptions(opt.Options)
		if opt.Choices != nil {
			copied.Choices = make([]*discordgo.ApplicationCommandOptionChoice, len(opt.Choices))
			for j, choice := range opt.Choices {
				c := *choice
				copied.Choices[j] = &c
			}
		}
		copied.ChannelTypes = slices.Clone(opt.ChannelTypes)
		result[i] = &copied
	}
	return result
}

// fillSettingChoices sets the choices of every "setting" option below the
// config command to the listed catalog entries.
func fillSettingChoices(options []*discordgo.ApplicationCommandOption) {
	for _, opt := range options {
		if opt.Name == "setting" && opt.Type == discordgo.ApplicationCommandOptionString {
			opt.Choices = settingChoices()
		}
		fillSettingChoices(opt.Options)
	}
}

func settingChoices() []*discordgo.ApplicationCommandOptionChoice {
	entries := guildconfig.ListedEntries()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entries))
	for _, e := range entries {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  e.Name,
			Value: string(e.Key),
		})
	}
	return choices
}
