package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

// Recommender produces recommendations for a seed title.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]core.MovieDetails, error)
}

// sender is the subset of the Bot API used for outgoing traffic.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options configures the bot's behaviour.
type Options struct {
	AllowedUserIDs []int64
	Plot           core.PlotLength // plot length for detail views
	DefaultResults int             // recommendations when the user gives no count
}

// Bot is the Telegram frontend for MovieMate.
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	sessions *sessionManager
	catalog  core.Catalog
	engine   Recommender
	opts     Options
	logger   *slog.Logger
}

// New creates a new Telegram Bot.
func New(token string, catalog core.Catalog, engine Recommender, opts Options, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return newBot(api, api, catalog, engine, opts, logger), nil
}

func newBot(api *tgbotapi.BotAPI, out sender, catalog core.Catalog, engine Recommender, opts Options, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Plot == "" {
		opts.Plot = core.PlotFull
	}
	if opts.DefaultResults <= 0 {
		opts.DefaultResults = recommend.DefaultOptions().DefaultResults
	}
	return &Bot{
		api:      api,
		out:      out,
		sessions: newSessionManager(opts.AllowedUserIDs),
		catalog:  catalog,
		engine:   engine,
		opts:     opts,
		logger:   logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("telegram bot started",
		slog.String("username", b.api.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}
