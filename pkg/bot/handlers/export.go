package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/importexport"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

func (h *Handler) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleExport")
		return
	}
	if !requirePrivateChat(ctx, b, update, "/export") {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	var records []vocab.Record
	if err := h.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
		records = tr.ListRecords()
		return nil
	}); err != nil {
		logger.Error("failed to load words for export", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your vocabulary. Please try again later.")
		return
	}
	if len(records) == 0 {
		sendText(ctx, b, chatID, "You have no vocabulary to export.")
		return
	}

	data, err := importexport.BuildExportCSV(records)
	if err != nil {
		logger.Error("failed to build export CSV", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your vocabulary. Please try again later.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: importexport.ExportFilename(h.registry.Now()),
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("Your vocabulary export (%d words).", len(records)),
	})
	if err != nil {
		logger.Error("failed to send export document", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to export your vocabulary. Please try again later.")
	}
}
