package importexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rune
	}{
		{"comma", "word,definition\nhello,a greeting\n", ','},
		{"tab", "word\tdefinition\nhello\ta greeting\n", '\t'},
		{"semicolon", "word;definition\nhello;a greeting, informal\n", ';'},
		{"single column", "hello\nworld\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCSVDelimiter([]byte(tt.input))
			if got != tt.expected {
				t.Fatalf("expected %q delimiter, got %q", tt.expected, got)
			}
		})
	}
}

func TestParseVocabularyCSV(t *testing.T) {
	data := strings.Join([]string{
		"Word;Definition;Example;Synonyms",
		"ephemeral;lasting a very short time;an ephemeral trend;fleeting, brief",
		"laconic;;missing definition",
		";missing word",
		"",
		"zeal;great energy",
	}, "\n")

	entries, skipped, err := ParseVocabularyCSV(append(append([]byte(nil), utf8BOM...), data...))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.Word != "ephemeral" || first.Definition != "lasting a very short time" ||
		first.Example != "an ephemeral trend" || first.Synonyms != "fleeting, brief" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if entries[1].Word != "zeal" || entries[1].Example != "" || entries[1].Synonyms != "" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
}

func TestParseVocabularyCSVWithoutHeader(t *testing.T) {
	entries, skipped, err := ParseVocabularyCSV([]byte("hola,hello\nadios,goodbye\n"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(entries) != 2 || skipped != 0 {
		t.Fatalf("expected 2 entries and no skips, got %d and %d", len(entries), skipped)
	}
	if entries[0].Word != "hola" {
		t.Fatalf("expected first data row kept, got %+v", entries[0])
	}
}

func TestBuildExportCSV(t *testing.T) {
	next := time.Date(2025, 3, 4, 22, 0, 0, 0, time.UTC)
	records := []vocab.Record{
		{Word: "alpha", Definition: "first, of many", ReviewLevel: 1, NextReviewDate: &next},
		{Word: "omega", Definition: "last", Example: "alpha and omega", Synonyms: "end", ReviewLevel: 4},
	}

	data, err := BuildExportCSV(records)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatal("expected UTF-8 BOM prefix")
	}
	if !bytes.Contains(data, []byte("\r\n")) {
		t.Fatal("expected CRLF line endings")
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read export back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "word,definition,example,synonyms,level,next_review" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "first, of many" || rows[1][4] != "1" || rows[1][5] != "2025-03-04" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][4] != "4" || rows[2][5] != "" {
		t.Fatalf("expected mastered row without next review, got %v", rows[2])
	}
}

func TestExportedCSVImportsBack(t *testing.T) {
	records := []vocab.Record{
		{Word: "alpha", Definition: "first", Example: "ex", Synonyms: "syn"},
	}
	data, err := BuildExportCSV(records)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	entries, skipped, err := ParseVocabularyCSV(data)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(entries) != 1 || skipped != 0 {
		t.Fatalf("expected header skipped and one entry, got %d entries %d skipped", len(entries), skipped)
	}
	if entries[0].Example != "ex" || entries[0].Synonyms != "syn" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2025, 2, 7, 15, 0, 0, 0, time.UTC))
	if got != "vocabulary-20250207.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
