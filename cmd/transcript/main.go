package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/martyport/discord-transcript-generator/internal/archive"
	"github.com/martyport/discord-transcript-generator/internal/config"
	"github.com/martyport/discord-transcript-generator/internal/export"
	"github.com/martyport/discord-transcript-generator/internal/fetch"
	"github.com/martyport/discord-transcript-generator/internal/notify"
	"github.com/martyport/discord-transcript-generator/internal/transcript"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:     "transcript",
		Short:   "Generate self-contained HTML transcripts of Discord channels",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.transcript/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(sendCmd())
	root.AddCommand(listCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadConfig() *config.Config {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
		cfg = config.Defaults()
	}
	applyLogLevel(cfg.LogLevel)
	return cfg
}

func applyLogLevel(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg := config.Defaults()
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath, "output", cfg.Output.Dir)
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		channelID  string
		limit      int
		out        string
		hydrate    bool
		saveImages bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch a channel's history and render it to HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signalContext()
			defer stop()

			if cmd.Flags().Changed("hydrate") {
				cfg.Render.Hydrate = hydrate
			}
			if cmd.Flags().Changed("save-images") {
				cfg.Render.SaveImages = saveImages
			}

			return runGenerate(ctx, cfg, channelID, limit, out)
		},
	}

	cmd.Flags().StringVar(&channelID, "channel", "", "channel ID to export (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max messages to export (0 = all)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <outputDir>/transcript-<channel>-<time>.html)")
	cmd.Flags().BoolVar(&hydrate, "hydrate", false, "pre-render components so no external runtime is needed")
	cmd.Flags().BoolVar(&saveImages, "save-images", false, "inline image attachments as data URIs")
	cmd.MarkFlagRequired("channel")

	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, channelID string, limit int, out string) error {
	client, err := fetch.Connect(cfg.Discord.Token, logger)
	if err != nil {
		return err
	}

	channel, err := client.Channel(ctx, channelID)
	if err != nil {
		return err
	}
	messages, err := client.Messages(ctx, channelID, limit)
	if err != nil {
		return err
	}

	html, err := transcript.Render(ctx, transcript.Options{
		Messages:  messages,
		Channel:   channel,
		Resolvers: client.Resolvers(),

		PoweredBy:           cfg.Render.PoweredBy,
		FooterText:          cfg.Render.FooterText,
		SaveImages:          cfg.Render.SaveImages,
		Favicon:             cfg.Render.Favicon,
		Hydrate:             cfg.Render.Hydrate,
		CustomGuildIconURL:  cfg.Render.CustomGuildIconURL,
		CustomAttachmentURL: cfg.Render.CustomAttachmentURL,
		CustomAvatarURL:     cfg.Render.CustomAvatarURL,
		CustomRoleIconURL:   cfg.Render.CustomRoleIconURL,
		ComponentVersion:    cfg.Render.ComponentVersion,
		Logger:              logger,
	})
	if err != nil {
		return err
	}

	if out == "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return err
		}
		name := fmt.Sprintf("transcript-%s-%s.html", channelID, time.Now().Format("20060102-150405"))
		out = filepath.Join(cfg.Output.Dir, name)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	logger.Info("transcript written", "file", out, "messages", len(messages))

	store, err := archive.NewStore(cfg.Archive.DBPath, logger)
	if err != nil {
		logger.Warn("archive unavailable, skipping ledger entry", "err", err)
		return nil
	}
	defer store.Close()

	entry := archive.Entry{
		ChannelID:    channelID,
		ChannelName:  channel.Name,
		MessageCount: len(messages),
		Path:         out,
		SizeBytes:    int64(len(html)),
	}
	if channel.Guild != nil {
		entry.GuildID = channel.Guild.ID
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("archive record failed", "err", err)
	}
	return nil
}

func exportCmd() *cobra.Command {
	var in, pdf, png string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a transcript HTML file to PDF or PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signalContext()
			defer stop()

			if pdf == "" && png == "" {
				return fmt.Errorf("one of --pdf or --png is required")
			}

			exporter := export.New(export.Config{
				Timeout: time.Duration(cfg.Export.TimeoutSeconds) * time.Second,
				Logger:  logger,
			})
			if pdf != "" {
				if err := exporter.PDF(ctx, in, pdf); err != nil {
					return err
				}
			}
			if png != "" {
				if err := exporter.Screenshot(ctx, in, png); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "transcript HTML file (required)")
	cmd.Flags().StringVar(&pdf, "pdf", "", "PDF output path")
	cmd.Flags().StringVar(&png, "png", "", "PNG output path")
	cmd.MarkFlagRequired("in")

	return cmd
}

func sendCmd() *cobra.Command {
	var file, caption string
	var chatID int64

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver a transcript file to a Telegram chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signalContext()
			defer stop()

			if cfg.Telegram.Token == "" {
				return fmt.Errorf("telegram.token is not configured")
			}
			tg, err := notify.NewTelegram(notify.TelegramConfig{
				Token:  cfg.Telegram.Token,
				ChatID: cfg.Telegram.ChatID,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			return tg.SendTranscript(ctx, chatID, file, caption)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "transcript file to send (required)")
	cmd.Flags().Int64Var(&chatID, "chat", 0, "chat ID (default: telegram.chatId from config)")
	cmd.Flags().StringVar(&caption, "caption", "", "document caption")
	cmd.MarkFlagRequired("file")

	return cmd
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			ctx, stop := signalContext()
			defer stop()

			store, err := archive.NewStore(cfg.Archive.DBPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %s  #%s  %d messages  %s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.ID[:8], e.ChannelName, e.MessageCount, e.Path)
			}
			if len(entries) == 0 {
				fmt.Println("no transcripts recorded yet")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "max entries to show")
	return cmd
}
