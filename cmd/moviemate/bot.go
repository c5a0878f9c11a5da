package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/MovieMate/internal/config"
	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend/telegram"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long:  "Start the MovieMate Telegram bot for searching and recommendations via Telegram.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBot()
		},
	}
}

// runBot initializes the catalog and engine and runs the bot until interrupted.
func runBot() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	if cfg.Telegram == nil {
		return errors.New(
			"telegram configuration is required: set telegram.bot_token in config or MOVIEMATE_TELEGRAM_BOT_TOKEN env var",
		)
	}

	bot, err := initTelegramBot(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("telegram bot starting", slog.Int("allowed_users", len(cfg.Telegram.AllowedUserIDs)))
	return bot.Start(ctx)
}

// initTelegramBot creates and returns a Telegram bot instance.
func initTelegramBot(cfg *config.Config, logger *slog.Logger) (*telegram.Bot, error) {
	catalog, err := initCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}
	return telegram.New(
		cfg.Telegram.BotToken,
		catalog,
		initEngine(cfg, catalog, logger),
		telegram.Options{
			AllowedUserIDs: cfg.Telegram.AllowedUserIDs,
			Plot:           core.PlotLength(cfg.OMDb.Plot),
			DefaultResults: cfg.Recommend.DefaultResults,
		},
		logger,
	)
}
