package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestHandleExportRejectsNonPrivateChat(t *testing.T) {
	h, _ := newTestHandler(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	update := newTestUpdate("/export", 400)
	update.Message.Chat.Type = models.ChatTypeGroup

	h.HandleExport(context.Background(), b, update)

	got := client.lastMessageText(t)
	if !strings.Contains(got, "only in private chat") {
		t.Fatalf("expected private chat warning, got %q", got)
	}
}

func TestHandleExportEmptyVocabulary(t *testing.T) {
	h, _ := newTestHandler(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleExport(context.Background(), b, newPrivateUpdate("/export", 401))

	got := client.lastMessageText(t)
	if !strings.Contains(got, "no vocabulary") {
		t.Fatalf("expected empty vocabulary message, got %q", got)
	}
}

func TestHandleExportSendsDocument(t *testing.T) {
	h, _ := newTestHandler(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleAdd(ctx, b, newTestUpdate("/add hello | a greeting", 402))
	h.HandleAdd(ctx, b, newTestUpdate("/add uno | one", 402))

	h.HandleExport(ctx, b, newPrivateUpdate("/export", 402))

	caption, _ := client.lastMultipartField(t, "caption")
	if caption != "Your vocabulary export (2 words)." {
		t.Fatalf("unexpected caption: %q", caption)
	}
	data, filename := client.lastMultipartField(t, "document")
	if filename != "vocabulary-20250101.csv" {
		t.Fatalf("unexpected filename: %q", filename)
	}
	if !strings.Contains(data, "hello,a greeting,,,0,2025-01-02") {
		t.Fatalf("unexpected export body: %q", data)
	}
}
