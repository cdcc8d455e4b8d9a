package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/urfave/cli/v3"

	"github.com/moyogii/sparrowbot/internal/bot"
)

var flagGuild = cli.StringFlag{
	Name:  "guild",
	Usage: "Guild id to operate on; global commands when empty",
}

var commandsCommand = &cli.Command{
	Name:  "commands",
	Usage: "Inspect or remove registered slash commands",
	Commands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List registered commands",
			Flags:  []cli.Flag{&flagGuild},
			Action: cliListCommands,
		},
		{
			Name:  "delete",
			Usage: "Delete a registered command by name",
			Flags: []cli.Flag{
				&flagGuild,
				&cli.StringFlag{Name: "name", Usage: "Command name", Required: true},
			},
			Action: cliDeleteCommand,
		},
		{
			Name:   "purge",
			Usage:  "Delete every registered command in a scope",
			Flags:  []cli.Flag{&flagGuild},
			Action: cliPurgeCommands,
		},
	},
}

// newDeleter builds a REST-only session; no gateway connection is opened.
func newDeleter(ctx context.Context, cmd *cli.Command) (*bot.CommandDeleter, error) {
	slog.SetDefault(loggerFromFlags(cmd))

	cfg, err := bot.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken())
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	appID := cfg.ClientID
	if appID == "" {
		me, err := session.User("@me", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve application id: %w", err)
		}
		appID = me.ID
	}
	return bot.NewCommandDeleter(session, appID, 0), nil
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

func cliListCommands(ctx context.Context, cmd *cli.Command) error {
	deleter, err := newDeleter(ctx, cmd)
	if err != nil {
		return err
	}

	guildID := cmd.String("guild")
	cmds, err := deleter.List(ctx, guildID)
	if err != nil {
		return err
	}

	fmt.Printf("%d commands registered (%s)\n", len(cmds), scope(guildID))
	for _, c := range cmds {
		fmt.Printf("%s\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return nil
}

func cliDeleteCommand(ctx context.Context, cmd *cli.Command) error {
	deleter, err := newDeleter(ctx, cmd)
	if err != nil {
		return err
	}

	name, guildID := cmd.String("name"), cmd.String("guild")
	n, err := deleter.Delete(ctx, name, guildID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no command named %q registered (%s)", name, scope(guildID))
	}
	fmt.Printf("deleted %d command(s) named %q (%s)\n", n, name, scope(guildID))
	return nil
}

func cliPurgeCommands(ctx context.Context, cmd *cli.Command) error {
	deleter, err := newDeleter(ctx, cmd)
	if err != nil {
		return err
	}

	guildID := cmd.String("guild")
	n, err := deleter.DeleteAll(ctx, guildID)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d command(s) (%s)\n", n, scope(guildID))
	return nil
}
