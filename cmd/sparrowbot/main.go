package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/moyogii/sparrowbot/internal/bot"
	"github.com/moyogii/sparrowbot/internal/cache"
	"github.com/moyogii/sparrowbot/internal/guildconfig"
	"github.com/moyogii/sparrowbot/internal/httpserver"
	"github.com/moyogii/sparrowbot/internal/modules/anilist"
	"github.com/moyogii/sparrowbot/internal/modules/auditlog"
	"github.com/moyogii/sparrowbot/internal/modules/automod"
	"github.com/moyogii/sparrowbot/internal/modules/core"
	"github.com/moyogii/sparrowbot/internal/modules/fun"
	"github.com/moyogii/sparrowbot/internal/modules/mangadex"
	"github.com/moyogii/sparrowbot/internal/modules/moderation"
	"github.com/moyogii/sparrowbot/internal/modules/music"
	"github.com/moyogii/sparrowbot/internal/modules/osu"
	"github.com/moyogii/sparrowbot/internal/storage"
	"github.com/moyogii/sparrowbot/internal/telemetry"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/sparrowbot
var version = "dev"

var app = cli.Command{
	Name:    "sparrowbot",
	Usage:   "Discord bot for moderation, music and anime lookups",
	Version: version,

	Flags: []cli.Flag{
		&flagLog,
		&flagLogFormat,
	},
	Commands: []*cli.Command{
		{
			Name:   "run",
			Usage:  "Connect to Discord and serve interactions",
			Action: cliRun,
		},
		commandsCommand,
	},
	Action: cliRun,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cliRun(ctx context.Context, cmd *cli.Command) error {
	slog.SetDefault(loggerFromFlags(cmd))
	slog.Info("starting sparrowbot", "version", version)

	cfg, err := bot.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := storage.ConnectMySQL(cfg.MySQL.DSN())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}
	if err := storage.Migrate(db); err != nil {
		return err
	}

	store := guildconfig.NewStore(storage.NewGuildConfigRepository(db))

	var responseCache cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL, "sparrowbot:")
		if err != nil {
			return err
		}
		defer func() { _ = redisCache.Close() }()
		responseCache = redisCache
	}

	reporter, err := telemetry.New(telemetry.SentryOptions{
		DSN:         cfg.SentryDSN,
		Environment: cfg.DeploymentEnv,
		Release:     version,
	})
	if err != nil {
		return err
	}
	if f, ok := reporter.(interface{ Flush(time.Duration) bool }); ok {
		defer f.Flush(2 * time.Second)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	osuModule := osu.New()
	registry := bot.NewRegistry(
		core.New(),
		moderation.New(),
		automod.New(),
		auditlog.New(),
		fun.New(),
		music.New(),
		anilist.New(),
		mangadex.New(),
		osuModule,
	)

	b := bot.NewBot(cfg, registry, store,
		bot.WithDatabase(db),
		bot.WithCache(responseCache),
		bot.WithTelemetry(reporter),
		bot.WithBotMetrics(bot.NewMetrics(reg)),
	)

	server := httpserver.New(cfg.HTTPAddr, reg)
	server.Register(osuModule)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx) })
	g.Go(func() error { return server.Run(gctx) })

	err = g.Wait()
	slog.Info("completed bot shutdown")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var (
	flagLog = cli.StringFlag{
		Name:       "log-level",
		Usage:      "Logging level, one of debug, info, warn, error",
		Value:      "info",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			var l slog.Level
			return l.UnmarshalText([]byte(s))
		},
	}

	flagLogFormat = cli.StringFlag{
		Name:       "log-format",
		Usage:      "Logging format, either text or json",
		Value:      "json",
		Persistent: true,
		Action: func(ctx context.Context, c *cli.Command, s string) error {
			switch strings.ToLower(s) {
			case "text", "json":
				return nil
			default:
				return errors.New("unknown logging format")
			}
		},
	}
)

func loggerFromFlags(cmd *cli.Command) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		l = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: l}
	if strings.EqualFold(cmd.String("log-format"), "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
