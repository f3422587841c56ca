package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/importexport"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

// DefaultHandler imports attached documents and answers anything else with help.
func (h *Handler) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	if update.Message.Chat.ID == 0 {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}
	if update.Message.Document == nil || update.Message.From == nil {
		sendText(ctx, b, update.Message.Chat.ID, helpText)
		return
	}
	h.handleDocumentImport(ctx, b, update)
}

func (h *Handler) handleDocumentImport(ctx context.Context, b *bot.Bot, update *models.Update) {
	doc := update.Message.Document
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	logger.Info("importing vocabulary file", "file_name", doc.FileName, "user_id", userID)

	if !importexport.Supported(doc.FileName) {
		sendText(ctx, b, chatID, "Please upload a CSV or XLSX file.")
		return
	}
	if doc.FileSize > maxUploadBytes {
		sendText(ctx, b, chatID, "The file is too large to import.")
		return
	}

	data, err := h.fetchFile(ctx, b, doc.FileID)
	if err != nil {
		logger.Error("failed to download import file", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to download the file. Please try again.")
		return
	}

	var result importexport.Result
	err = h.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
		var importErr error
		result, importErr = importexport.Import(ctx, tr, doc.FileName, data)
		return importErr
	})
	switch {
	case err == nil:
	case errors.Is(err, vocab.ErrPersistence):
		logger.Error("failed to save imported words", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Your words were imported but could not be saved. Please try again later.")
		return
	default:
		logger.Error("failed to import vocabulary file", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to read the file. Please ensure it is in the correct format.")
		return
	}

	if result.Added == 0 && result.Duplicates == 0 {
		sendText(ctx, b, chatID, "No valid words found to import.")
		return
	}
	sendText(ctx, b, chatID, fmt.Sprintf("Imported %d new words, %d already in your list, skipped %d rows.",
		result.Added, result.Duplicates, result.Skipped))
}
