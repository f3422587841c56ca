package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/review"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/ui"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

func (h *Handler) HandleReview(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleReview")
		return
	}
	if !requirePrivateChat(ctx, b, update, "/review") {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	err := h.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
		if err := tr.StartReview(h.registry.Now()); err != nil {
			return err
		}
		return sendCardFront(ctx, b, chatID, tr)
	})
	switch {
	case err == nil:
	case errors.Is(err, vocab.ErrNothingDue):
		sendText(ctx, b, chatID, "Nothing to review right now.")
	default:
		logger.Error("failed to start review", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to start review. Please try again later.")
	}
}

// sendCardFront posts the current card. Queued ids that no longer resolve
// are submitted through, which the session treats as a skip.
func sendCardFront(ctx context.Context, b *bot.Bot, chatID int64, tr *trainer.Trainer) error {
	card, ok := tr.CurrentCard()
	for !ok && tr.Reviewing() {
		step, err := tr.SubmitFeedback(ctx, false)
		if step.Completed || err != nil {
			return sendCompletion(ctx, b, chatID, tr, err)
		}
		card, ok = tr.CurrentCard()
	}
	if !ok {
		return vocab.ErrNothingDue
	}

	index, total := tr.Position()
	text, keyboard, err := ui.RenderCardFront(card, index, total, tr.CardToken())
	if err != nil {
		return err
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

func sendCompletion(ctx context.Context, b *bot.Bot, chatID int64, tr *trainer.Trainer, saveErr error) error {
	summary, _ := tr.LastSummary()
	text := ui.RenderSummary(summary)
	if saveErr != nil {
		text += "\nYour progress could not be saved. It will be saved with your next change."
	}
	sendText(ctx, b, chatID, text)
	return nil
}

func (h *Handler) HandleReviewCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleReviewCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer review callback query", "error", err)
		}
	}

	action, err := ui.ParseReviewCallback(update.CallbackQuery.Data)
	if err != nil {
		answerCallback("Not active")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		answerCallback("Message missing")
		return
	}
	msg := message.Message
	userID := update.CallbackQuery.From.ID

	stale := false
	err = h.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
		if !tr.Reviewing() || tr.CardToken() != action.Token {
			stale = true
			return nil
		}
		switch action.Op {
		case ui.OpShow:
			return showCardBack(ctx, b, msg, tr)
		case ui.OpFeedback:
			return applyFeedback(ctx, b, msg, tr, action.Remembered)
		}
		return nil
	})
	if stale {
		answerCallback("Not active")
		return
	}
	if err != nil {
		logger.Error("failed to handle review callback", "user_id", userID, "error", err)
		answerCallback("Something went wrong")
		return
	}
	answerCallback("")
}

func showCardBack(ctx context.Context, b *bot.Bot, msg *models.Message, tr *trainer.Trainer) error {
	card, ok := tr.CurrentCard()
	if !ok {
		return sendCardFront(ctx, b, msg.Chat.ID, tr)
	}
	tr.RevealCurrentCard()
	index, total := tr.Position()
	text, keyboard, err := ui.RenderCardBack(card, index, total, tr.CardToken())
	if err != nil {
		return err
	}
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	return err
}

func applyFeedback(ctx context.Context, b *bot.Bot, msg *models.Message, tr *trainer.Trainer, remembered bool) error {
	card, _ := tr.CurrentCard()
	step, saveErr := tr.SubmitFeedback(ctx, remembered)
	if saveErr != nil {
		logger.Error("failed to save review session", "chat_id", msg.Chat.ID, "error", saveErr)
	}

	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      ui.RenderFeedbackResolved(card, remembered),
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{},
		},
	}); err != nil {
		logger.Error("failed to edit review prompt", "chat_id", msg.Chat.ID, "error", err)
	}

	return nextStep(ctx, b, msg.Chat.ID, tr, step, saveErr)
}

func nextStep(ctx context.Context, b *bot.Bot, chatID int64, tr *trainer.Trainer, step review.StepResult, saveErr error) error {
	if step.Completed {
		return sendCompletion(ctx, b, chatID, tr, saveErr)
	}
	if step.Continuing {
		return sendCardFront(ctx, b, chatID, tr)
	}
	return nil
}
