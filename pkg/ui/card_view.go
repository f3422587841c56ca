package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/vocab-trainer/pkg/review"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

const MaxListedRecords = 50

// RenderCardFront shows only the word with a button to reveal the answer.
func RenderCardFront(record vocab.Record, index, total int, token string) (string, *models.InlineKeyboardMarkup, error) {
	showData, err := BuildShowCallback(token)
	if err != nil {
		return "", nil, err
	}
	text := fmt.Sprintf("Card %d of %d\n\n%s", index+1, total, record.Word)
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "Show answer", CallbackData: showData}},
		},
	}
	return text, keyboard, nil
}

// RenderCardBack shows the full card and the feedback buttons.
func RenderCardBack(record vocab.Record, index, total int, token string) (string, *models.InlineKeyboardMarkup, error) {
	yesData, err := BuildFeedbackCallback(token, true)
	if err != nil {
		return "", nil, err
	}
	noData, err := BuildFeedbackCallback(token, false)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Card %d of %d\n\n%s\n%s", index+1, total, record.Word, record.Definition)
	if record.Example != "" {
		fmt.Fprintf(&b, "\n\nExample: %s", record.Example)
	}
	if record.Synonyms != "" {
		fmt.Fprintf(&b, "\nSynonyms: %s", record.Synonyms)
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Remembered", CallbackData: yesData},
				{Text: "Forgot", CallbackData: noData},
			},
		},
	}
	return b.String(), keyboard, nil
}

// RenderFeedbackResolved is the card text after an answer was recorded.
func RenderFeedbackResolved(record vocab.Record, remembered bool) string {
	label := "Forgot"
	if remembered {
		label = "Remembered"
	}
	return fmt.Sprintf("%s\n%s\n\n%s", record.Word, record.Definition, label)
}

func RenderSummary(summary review.Summary) string {
	text := fmt.Sprintf("Session complete: %d reviewed, %d remembered, %d forgotten.",
		summary.Reviewed, summary.Remembered, summary.Forgotten)
	if summary.Mastered > 0 {
		text += fmt.Sprintf("\nNewly mastered: %d.", summary.Mastered)
	}
	return text
}

// RenderList prints one line per record. Lists longer than MaxListedRecords
// are truncated with a note.
func RenderList(records []vocab.Record) string {
	if len(records) == 0 {
		return "Your vocabulary is empty. Add a word with /add word | definition."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your vocabulary (%d words):\n", len(records))
	for i, record := range records {
		if i == MaxListedRecords {
			fmt.Fprintf(&b, "... and %d more. Use /export for the full list.", len(records)-MaxListedRecords)
			break
		}
		fmt.Fprintf(&b, "%s: %s (%s)\n", record.Word, record.Definition, reviewStatus(record))
	}
	return strings.TrimRight(b.String(), "\n")
}

func reviewStatus(record vocab.Record) string {
	if record.NextReviewDate == nil {
		return "mastered"
	}
	return fmt.Sprintf("level %d, next %s", record.ReviewLevel, record.NextReviewDate.UTC().Format(time.DateOnly))
}

func RenderStats(stats trainer.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Words: %d\nDue today: %d\nMastered: %d", stats.Total, stats.Due, stats.Mastered)
	last := len(stats.ByLevel) - 1
	for level, count := range stats.ByLevel {
		if level == last {
			break
		}
		fmt.Fprintf(&b, "\nLevel %d: %d", level, count)
	}
	return b.String()
}

func RenderDue(due int) string {
	switch due {
	case 0:
		return "Nothing to review right now."
	case 1:
		return "You have 1 word due. Send /review to start."
	default:
		return fmt.Sprintf("You have %d words due. Send /review to start.", due)
	}
}
