package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zulandar/penlog/internal/api"
	"github.com/zulandar/penlog/internal/config"
	"github.com/zulandar/penlog/internal/notify"
	"github.com/zulandar/penlog/internal/notify/discord"
	"github.com/zulandar/penlog/internal/notify/slack"
	"github.com/zulandar/penlog/internal/photo"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Launches the HTTP API, and the chat notification watcher when a platform is configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "penlog.yaml", "path to config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Server.Port
	}

	photos, err := photo.NewStore(cfg.Photos.Dir, cfg.Photos.MaxSizeBytes)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Notify.Platform != "" {
		if err := startWatcher(ctx, cfg, gormDB); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Notification watcher running (%s)\n", cfg.Notify.Platform)
	}

	return api.Start(ctx, api.StartOpts{
		DB:     gormDB,
		Photos: photos,
		Port:   port,
		Out:    cmd.OutOrStdout(),
	})
}

// startWatcher wires the configured chat adapter to the activity watcher.
func startWatcher(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) error {
	var adapter notify.Adapter
	var err error

	switch cfg.Notify.Platform {
	case "slack":
		adapter, err = slack.New(slack.AdapterOpts{
			BotToken:  cfg.Notify.SlackToken,
			ChannelID: cfg.Notify.ChannelID,
		})
	case "discord":
		adapter, err = discord.New(discord.AdapterOpts{
			BotToken:  cfg.Notify.DiscordToken,
			ChannelID: cfg.Notify.ChannelID,
		})
	default:
		return fmt.Errorf("unknown notify platform %q", cfg.Notify.Platform)
	}
	if err != nil {
		return err
	}

	watcher, err := notify.NewWatcher(notify.WatcherOpts{
		DB:         gormDB,
		Adapter:    adapter,
		ChannelID:  cfg.Notify.ChannelID,
		DigestCron: cfg.Notify.DigestCron,
	})
	if err != nil {
		return err
	}

	go func() {
		defer adapter.Close()
		if err := watcher.Run(ctx); err != nil {
			log.Printf("notify watcher stopped: %v", err)
		}
	}()
	return nil
}
