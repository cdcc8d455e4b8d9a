package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// defaultDeleteInterval spaces out bulk deletions to stay clear of rate limits.
const defaultDeleteInterval = 5 * time.Second

// CommandAPI lists and deletes registered application commands.
// *discordgo.Session satisfies it.
type CommandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// CommandDeleter removes commands that are registered on Discord.
type CommandDeleter struct {
	api     CommandAPI
	appID   string
	limiter *rate.Limiter
}

// NewCommandDeleter creates a CommandDeleter for appID. An interval of zero
// uses the default spacing between deletions.
func NewCommandDeleter(api CommandAPI, appID string, interval time.Duration) *CommandDeleter {
	if interval <= 0 {
		interval = defaultDeleteInterval
	}
	return &CommandDeleter{
		api:     api,
		appID:   appID,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// List returns the commands registered in a scope. An empty guildID is global.
func (d *CommandDeleter) List(ctx context.Context, guildID string) ([]*discordgo.ApplicationCommand, error) {
	cmds, err := d.api.ApplicationCommands(d.appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list commands: %w", err)
	}
	return cmds, nil
}

// Delete removes every registered command called name in a scope and
// returns how many were removed.
func (d *CommandDeleter) Delete(ctx context.Context, name, guildID string) (int, error) {
	cmds, err := d.List(ctx, guildID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, cmd := range cmds {
		if cmd.Name != name {
			continue
		}
		if err := d.api.ApplicationCommandDelete(d.appID, guildID, cmd.ID, discordgo.WithContext(ctx)); err != nil {
			return deleted, fmt.Errorf("failed to delete command %s: %w", name, err)
		}
		deleted++
		slog.Info("deleted command", "command", name, "guild_id", guildID)
	}
	return deleted, nil
}

// DeleteAll removes every registered command in a scope, one at a time.
func (d *CommandDeleter) DeleteAll(ctx context.Context, guildID string) (int, error) {
	cmds, err := d.List(ctx, guildID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, cmd := range cmds {
		if err := d.limiter.Wait(ctx); err != nil {
			return deleted, err
		}
		if err := d.api.ApplicationCommandDelete(d.appID, guildID, cmd.ID, discordgo.WithContext(ctx)); err != nil {
			return deleted, fmt.Errorf("failed to delete command %s: %w", cmd.Name, err)
		}
		deleted++
		slog.Info("deleted command", "command", cmd.Name, "guild_id", guildID)
	}
	return deleted, nil
}
