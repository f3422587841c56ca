package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	users "github.com/smith3v/vocab-trainer/pkg/bot"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/ui"
)

const maxUploadBytes = 5 << 20

// FileFetcher downloads an uploaded Telegram document.
type FileFetcher func(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error)

// Handler serves every command against the per-user trainers in registry.
type Handler struct {
	registry  *users.Registry
	fetchFile FileFetcher
}

type Option func(*Handler)

func WithFileFetcher(fetch FileFetcher) Option {
	return func(h *Handler) {
		if fetch != nil {
			h.fetchFile = fetch
		}
	}
}

func New(registry *users.Registry, opts ...Option) *Handler {
	h := &Handler{
		registry:  registry,
		fetchFile: DownloadFile,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register wires the command and callback handlers into b.
func (h *Handler) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, h.HandleAdd)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypeExact, h.HandleList)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/due", bot.MatchTypeExact, h.HandleDue)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, h.HandleStats)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/review", bot.MatchTypeExact, h.HandleReview)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, h.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.ReviewCallbackPrefix, bot.MatchTypePrefix, h.HandleReviewCallback)
}

// DownloadFile resolves fileID and fetches it from the Telegram file endpoint.
func DownloadFile(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func requirePrivateChat(ctx context.Context, b *bot.Bot, update *models.Update, command string) bool {
	if update.Message.Chat.Type == models.ChatTypePrivate {
		return true
	}
	sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("The %s command works only in private chat.", command))
	return false
}
