package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/logger"
)

const helpText = "Commands:\n" +
	"/add word | definition | example | synonyms: add a word (example and synonyms are optional).\n" +
	"/review: review the words due today.\n" +
	"/due: show how many words are due.\n" +
	"/list: list your vocabulary.\n" +
	"/stats: show your progress.\n" +
	"/export: download your vocabulary as CSV.\n\n" +
	"Attach a CSV or XLSX file with columns word, definition, example, synonyms to import words."

func (h *Handler) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStart")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, "Welcome to your vocabulary trainer.\n\n"+helpText)
}
