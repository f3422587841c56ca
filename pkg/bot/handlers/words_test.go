package handlers

import (
	"context"
	"strings"
	"testing"

	"github.com/smith3v/vocab-trainer/pkg/trainer"
)

func TestParseAddCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  trainer.Entry
		ok    bool
	}{
		{
			name:  "word and definition",
			input: "/add ephemeral | short-lived",
			want:  trainer.Entry{Word: "ephemeral", Definition: "short-lived"},
			ok:    true,
		},
		{
			name:  "all fields",
			input: "/add ephemeral | short-lived | an ephemeral fad | fleeting, brief",
			want:  trainer.Entry{Word: "ephemeral", Definition: "short-lived", Example: "an ephemeral fad", Synonyms: "fleeting, brief"},
			ok:    true,
		},
		{
			name:  "bot mention",
			input: "/add@vocab_bot zeal | energy",
			want:  trainer.Entry{Word: "zeal", Definition: "energy"},
			ok:    true,
		},
		{
			name:  "pipe in synonyms",
			input: "/add a | b | c | d | e",
			want:  trainer.Entry{Word: "a", Definition: "b", Example: "c", Synonyms: "d | e"},
			ok:    true,
		},
		{name: "no separator", input: "/add ephemeral", ok: false},
		{name: "bare command", input: "/add", ok: false},
		{name: "other command", input: "/address x | y", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAddCommand(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%+v)", tt.ok, ok, got)
			}
			if ok && got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestHandleAdd(t *testing.T) {
	h, _ := newTestHandler(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleAdd(ctx, b, newTestUpdate("/add ephemeral | short-lived", 200))
	if got := client.lastMessageText(t); !strings.Contains(got, `Added "ephemeral"`) {
		t.Fatalf("expected confirmation, got %q", got)
	}

	h.HandleAdd(ctx, b, newTestUpdate("/add Ephemeral | again", 200))
	if got := client.lastMessageText(t); !strings.Contains(got, "already in your list") {
		t.Fatalf("expected duplicate warning, got %q", got)
	}

	h.HandleAdd(ctx, b, newTestUpdate("/add  | missing word", 200))
	if got := client.lastMessageText(t); !strings.Contains(got, "cannot be empty") {
		t.Fatalf("expected validation message, got %q", got)
	}

	h.HandleAdd(ctx, b, newTestUpdate("/add nothing", 200))
	if got := client.lastMessageText(t); !strings.HasPrefix(got, "Usage:") {
		t.Fatalf("expected usage, got %q", got)
	}

	var count int
	if err := h.registry.With(ctx, 200, func(tr *trainer.Trainer) error {
		count = len(tr.ListRecords())
		return nil
	}); err != nil {
		t.Fatalf("registry failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored word, got %d", count)
	}
}

func TestHandleListDueAndStats(t *testing.T) {
	h, clock := newTestHandler(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)
	ctx := context.Background()

	h.HandleList(ctx, b, newTestUpdate("/list", 201))
	if got := client.lastMessageText(t); !strings.Contains(got, "empty") {
		t.Fatalf("expected empty list, got %q", got)
	}

	h.HandleAdd(ctx, b, newTestUpdate("/add zeal | great energy", 201))
	h.HandleAdd(ctx, b, newTestUpdate("/add apple | a fruit", 201))

	h.HandleList(ctx, b, newTestUpdate("/list", 201))
	got := client.lastMessageText(t)
	if strings.Index(got, "apple") > strings.Index(got, "zeal") {
		t.Fatalf("expected words sorted, got %q", got)
	}

	h.HandleDue(ctx, b, newTestUpdate("/due", 201))
	if got := client.lastMessageText(t); got != "Nothing to review right now." {
		t.Fatalf("expected nothing due, got %q", got)
	}

	clock.now = clock.now.AddDate(0, 0, 1)
	h.HandleDue(ctx, b, newTestUpdate("/due", 201))
	if got := client.lastMessageText(t); !strings.Contains(got, "2 words due") {
		t.Fatalf("expected 2 due, got %q", got)
	}

	h.HandleStats(ctx, b, newTestUpdate("/stats", 201))
	got = client.lastMessageText(t)
	if !strings.Contains(got, "Words: 2") || !strings.Contains(got, "Due today: 2") {
		t.Fatalf("unexpected stats %q", got)
	}
}
