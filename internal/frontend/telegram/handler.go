package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	resetMsg        = "Session cleared."
	expiredMsg      = "That list is no longer available. Search again."

	helpMsg = `MovieMate finds movies on OMDb.

/search <title> - search by title (or just send the title)
/details <imdb id> - full details, e.g. /details tt0468569
/recommend <title> [| N] - titles sharing the first genre of <title>
/reset - forget your last result list`

	callbackPrefix = "sel:" // prefix for selection callback data

	maxButtons     = 10 // inline buttons per result list
	maxButtonLabel = 30 // max characters in inline keyboard button label
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	cmd, args := parseCommand(text)
	switch cmd {
	case "start", "help":
		b.sendText(chatID, helpMsg)
	case "reset":
		b.sessions.reset(userID)
		b.sendText(chatID, resetMsg)
	case "search", "":
		b.typing(chatID)
		b.search(ctx, userID, chatID, args)
	case "details":
		b.typing(chatID)
		b.details(ctx, chatID, args)
	case "recommend":
		b.typing(chatID)
		b.recommend(ctx, userID, chatID, args)
	default:
		b.sendText(chatID, "Unknown command. Send /help for the list.")
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	b.out.Request(tgbotapi.NewCallback(cq.ID, "")) //nolint:errcheck // best-effort ack

	if !b.sessions.isAllowed(userID) {
		return
	}

	// Parse selection callbacks like "sel:1" → user chose option 1.
	if !strings.HasPrefix(cq.Data, callbackPrefix) {
		return
	}
	n, err := strconv.Atoi(strings.TrimPrefix(cq.Data, callbackPrefix))
	if err != nil {
		return
	}
	item, ok := b.sessions.selection(userID, n)
	if !ok {
		b.sendText(chatID, expiredMsg)
		return
	}

	b.typing(chatID)
	b.details(ctx, chatID, item.IMDbID)
}

func (b *Bot) search(ctx context.Context, userID, chatID int64, title string) {
	if title == "" {
		b.sendText(chatID, "Usage: /search <title>")
		return
	}
	results, err := b.catalog.SearchByTitle(ctx, core.SearchRequest{Title: title})
	if err != nil {
		b.sendError(chatID, "search failed", err)
		return
	}
	if len(results) == 0 {
		b.sendText(chatID, frontend.MsgNoResults)
		return
	}
	b.sessions.setResults(userID, results)
	b.sendList(chatID, fmt.Sprintf("Results for %q", title), results)
}

func (b *Bot) details(ctx context.Context, chatID int64, imdbID string) {
	if imdbID == "" {
		b.sendText(chatID, "Usage: /details <imdb id>")
		return
	}
	d, err := b.catalog.GetDetailsByID(ctx, imdbID, b.opts.Plot)
	if err != nil {
		b.sendError(chatID, "details failed", err)
		return
	}
	b.sendPoster(chatID, d.MovieSummary)
	b.sendMarkdown(chatID, formatDetails(d), nil)
}

func (b *Bot) recommend(ctx context.Context, userID, chatID int64, args string) {
	title, n, err := parseRecommendArgs(args, b.opts.DefaultResults)
	if err != nil {
		b.sendText(chatID, err.Error())
		return
	}
	recs, err := b.engine.Recommend(ctx, recommend.Request{SeedTitle: title, MaxResults: n})
	if err != nil {
		b.sendError(chatID, "recommend failed", err)
		return
	}
	if len(recs) == 0 {
		b.sendText(chatID, fmt.Sprintf("No recommendations found for %q.", title))
		return
	}
	items := frontend.Summaries(recs)
	b.sessions.setResults(userID, items)
	b.sendList(chatID, fmt.Sprintf("Because you like %q", title), items)
}

// sendList sends a numbered list with one selection button per item.
func (b *Bot) sendList(chatID int64, header string, items []core.MovieSummary) {
	b.sendMarkdown(chatID, formatList(header, items), selectionKeyboard(items))
}

// sendMarkdown sends MarkdownV2 text, falling back to plain text if
// Telegram rejects the markup.
func (b *Bot) sendMarkdown(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		plain := tgbotapi.NewMessage(chatID, stripMdV2(text))
		if kb != nil {
			plain.ReplyMarkup = kb
		}
		if _, err := b.out.Send(plain); err != nil {
			b.logger.Error("failed to send message",
				slog.Int64("chat_id", chatID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

func (b *Bot) sendError(chatID int64, op string, err error) {
	b.logger.Warn(op,
		slog.Int64("chat_id", chatID),
		slog.String("error", err.Error()),
	)
	b.sendText(chatID, frontend.UserMessage(err))
}

// sendPoster sends the poster image when the title has one.
func (b *Bot) sendPoster(chatID int64, s core.MovieSummary) {
	if !s.HasPoster() {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(s.PosterURL))
	photo.Caption = frontend.SummaryLine(s)
	if _, err := b.out.Send(photo); err != nil {
		b.logger.Debug("failed to send poster",
			slog.String("url", s.PosterURL),
			slog.String("error", err.Error()),
		)
	}
}

func (b *Bot) typing(chatID int64) {
	b.out.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)) //nolint:errcheck // best-effort typing indicator
}

// selectionKeyboard builds one button per item, one per row (cleaner on
// mobile). Returns nil for an empty list.
func selectionKeyboard(items []core.MovieSummary) *tgbotapi.InlineKeyboardMarkup {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, min(len(items), maxButtons))
	for i, s := range items {
		if i == maxButtons {
			break
		}
		label := truncateLabel(fmt.Sprintf("%d. %s", i+1, frontend.SummaryLine(s)), maxButtonLabel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackPrefix+strconv.Itoa(i+1)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// parseCommand splits "/cmd@bot args" into ("cmd", "args"). Plain text
// yields an empty command and the whole text as args.
func parseCommand(text string) (cmd, args string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}

var (
	errRecommendUsage = errors.New("usage: /recommend <title> [| N]")
	errRecommendCount = errors.New("the number of recommendations must be a positive integer")
)

// parseRecommendArgs reads "<title> [| N]".
func parseRecommendArgs(args string, def int) (string, int, error) {
	title, count, hasCount := strings.Cut(args, "|")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", 0, errRecommendUsage
	}
	if !hasCount {
		return title, def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || n < 1 {
		return "", 0, errRecommendCount
	}
	return title, n, nil
}

// stripMdV2 removes MarkdownV2 escapes and emphasis markers.
func stripMdV2(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*' || r == '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
