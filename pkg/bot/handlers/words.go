package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/ui"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

const addUsage = "Usage: /add word | definition | example | synonyms"

// parseAddCommand splits "/add word | definition | example | synonyms".
// Example and synonyms are optional.
func parseAddCommand(text string) (trainer.Entry, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), "/add")
	if !ok {
		return trainer.Entry{}, false
	}
	if strings.HasPrefix(rest, "@") {
		if i := strings.IndexAny(rest, " \n\t"); i >= 0 {
			rest = rest[i:]
		} else {
			rest = ""
		}
	} else if rest != "" && !strings.ContainsAny(rest[:1], " \n\t") {
		return trainer.Entry{}, false
	}

	parts := strings.SplitN(rest, "|", 4)
	if len(parts) < 2 {
		return trainer.Entry{}, false
	}
	entry := trainer.Entry{
		Word:       strings.TrimSpace(parts[0]),
		Definition: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		entry.Example = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		entry.Synonyms = strings.TrimSpace(parts[3])
	}
	return entry, true
}

func (h *Handler) HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleAdd")
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	entry, ok := parseAddCommand(update.Message.Text)
	if !ok {
		sendText(ctx, b, chatID, addUsage)
		return
	}

	var record vocab.Record
	err := h.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
		var addErr error
		record, addErr = tr.AddWord(ctx, entry.Word, entry.Definition, entry.Example, entry.Synonyms)
		return addErr
	})
	switch {
	case err == nil:
		sendText(ctx, b, chatID, fmt.Sprintf("Added %q. First review tomorrow.", record.Word))
	case errors.Is(err, vocab.ErrInvalidInput):
		sendText(ctx, b, chatID, "Word and definition cannot be empty.\n"+addUsage)
	case errors.Is(err, vocab.ErrDuplicateWord):
		sendText(ctx, b, chatID, fmt.Sprintf("%q is already in your list.", entry.Word))
	case errors.Is(err, vocab.ErrPersistence):
		logger.Error("failed to save added word", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, fmt.Sprintf("Added %q, but it could not be saved. Please try again later.", record.Word))
	default:
		logger.Error("failed to add word", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to add the word. Please try again later.")
	}
}

func (h *Handler) HandleList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleList")
		return
	}
	var records []vocab.Record
	if err := h.registry.With(ctx, update.Message.From.ID, func(tr *trainer.Trainer) error {
		records = tr.ListRecords()
		return nil
	}); err != nil {
		logger.Error("failed to list words", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your vocabulary. Please try again later.")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderList(records))
}

func (h *Handler) HandleDue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleDue")
		return
	}
	due := 0
	if err := h.registry.With(ctx, update.Message.From.ID, func(tr *trainer.Trainer) error {
		due = tr.DueCount(h.registry.Now())
		return nil
	}); err != nil {
		logger.Error("failed to count due words", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your vocabulary. Please try again later.")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderDue(due))
}

func (h *Handler) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStats")
		return
	}
	var stats trainer.Stats
	if err := h.registry.With(ctx, update.Message.From.ID, func(tr *trainer.Trainer) error {
		stats = tr.Stats(h.registry.Now())
		return nil
	}); err != nil {
		logger.Error("failed to compute stats", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your vocabulary. Please try again later.")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderStats(stats))
}
