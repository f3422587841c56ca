// Package importexport converts vocabulary files to and from trainer entries.
package importexport

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/smith3v/vocab-trainer/pkg/trainer"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Adder is the part of the trainer an import needs.
type Adder interface {
	AddWords(ctx context.Context, entries []trainer.Entry) (trainer.BatchResult, error)
}

type Result struct {
	Added      int
	Duplicates int
	// Skipped counts unreadable rows and rows rejected as invalid.
	Skipped int
}

// Supported reports whether filename has an importable extension.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	default:
		return false
	}
}

// Parse picks the reader by file extension.
func Parse(filename string, data []byte) ([]trainer.Entry, int, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseVocabularyCSV(data)
	case ".xlsx":
		return ParseVocabularyXLSX(data)
	default:
		return nil, 0, ErrUnsupportedFormat
	}
}

// Import parses data and adds every entry in one batch. When the batch save
// fails the error wraps vocab.ErrPersistence and the result still counts what
// was added in memory.
func Import(ctx context.Context, adder Adder, filename string, data []byte) (Result, error) {
	entries, skipped, err := Parse(filename, data)
	if err != nil {
		return Result{}, err
	}
	result := Result{Skipped: skipped}
	if len(entries) == 0 {
		return result, nil
	}
	batch, err := adder.AddWords(ctx, entries)
	result.Added = batch.Added
	result.Duplicates = batch.Duplicates
	result.Skipped += batch.Skipped
	return result, err
}
