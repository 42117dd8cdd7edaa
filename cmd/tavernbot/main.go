package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sglre6355/tavernbot/internal/bot"
	_ "github.com/sglre6355/tavernbot/internal/modules/chat"
	_ "github.com/sglre6355/tavernbot/internal/modules/dice"
	_ "github.com/sglre6355/tavernbot/internal/modules/help"
	_ "github.com/sglre6355/tavernbot/internal/modules/jokes"
	_ "github.com/sglre6355/tavernbot/internal/modules/memes"
	_ "github.com/sglre6355/tavernbot/internal/modules/music_player"
	_ "github.com/sglre6355/tavernbot/internal/modules/tasks"
	_ "github.com/sglre6355/tavernbot/internal/modules/weather"
	"github.com/sglre6355/tavernbot/internal/prefixes"
	"github.com/sglre6355/tavernbot/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/tavernbot
var version = "dev"

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "tavernbot",
		Short:         "Discord bot for music, tasks and small utilities",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.AddCommand(migrateCmd(), versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("failed to run tavernbot", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := bot.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	handler, err := bot.NewLogHandler(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	bot.BridgeDiscordgoLogger(handler)

	slog.Info("starting tavernbot", "version", version)

	db, err := storage.OpenAndMigrate(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	prefixStore := prefixes.NewStore(
		storage.NewPrefixRepository(db),
		cfg.DefaultPrefix,
		prefixes.DefaultCacheSize,
	)
	if err := prefixStore.Load(ctx); err != nil {
		return err
	}

	// Create and configure bot
	b := bot.NewBot(cfg, db, prefixStore)
	if err := b.LoadModules(); err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}

	if err := b.Start(); err != nil {
		_ = b.Stop()
		return fmt.Errorf("failed to start bot: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
	return nil
}

type migrateConfig struct {
	DatabasePath string `env:"DATABASE_PATH" envDefault:"db/tasks.db"`
}

func migrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				cfg := &migrateConfig{}
				if err := env.Parse(cfg); err != nil {
					return err
				}
				path = cfg.DatabasePath
			}

			db, err := storage.OpenAndMigrate(cmd.Context(), path)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "db", "", "database file (default: $DATABASE_PATH or db/tasks.db)")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
