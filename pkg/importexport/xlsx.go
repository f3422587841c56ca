package importexport

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/xuri/excelize/v2"
)

var errNoSheets = errors.New("workbook has no sheets")

// ParseVocabularyXLSX reads the first sheet of a workbook using the same
// column layout as ParseVocabularyCSV.
func ParseVocabularyXLSX(data []byte) ([]trainer.Entry, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close workbook", "error", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, errNoSheets
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	entries, skipped := entriesFromRows(rows)
	return entries, skipped, nil
}
