package importexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/trainer"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const maxDelimiterSampleRecords = 20

var exportHeader = []string{"word", "definition", "example", "synonyms", "level", "next_review"}

// ParseVocabularyCSV reads word, definition, example and synonyms columns.
// The delimiter is sniffed from comma, tab and semicolon. Blank rows and rows
// missing a word or definition are counted as skipped.
func ParseVocabularyCSV(data []byte) ([]trainer.Entry, int, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	delimiter := detectCSVDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, record)
	}
	entries, skipped := entriesFromRows(rows)
	return entries, skipped, nil
}

// entriesFromRows is shared by the CSV and XLSX readers.
func entriesFromRows(rows [][]string) ([]trainer.Entry, int) {
	var entries []trainer.Entry
	skipped := 0
	checkedHeader := false

	for _, row := range rows {
		if isEmptyRecord(row) {
			skipped++
			continue
		}
		if !checkedHeader {
			checkedHeader = true
			if isHeaderRecord(row) {
				continue
			}
		}
		if len(row) < 2 {
			skipped++
			continue
		}
		entry := trainer.Entry{
			Word:       strings.TrimSpace(row[0]),
			Definition: strings.TrimSpace(row[1]),
			Example:    cell(row, 2),
			Synonyms:   cell(row, 3),
		}
		if entry.Word == "" || entry.Definition == "" {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func detectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', ';'}
	bestDelimiter := candidates[0]
	bestScore := -1

	for _, delimiter := range candidates {
		score, err := scoreDelimiter(data, delimiter, maxDelimiterSampleRecords)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delimiter
		}
	}

	if bestScore <= 0 {
		return ','
	}
	return bestDelimiter
}

func scoreDelimiter(data []byte, delimiter rune, maxRecords int) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	counts := make(map[int]int)
	recordsSeen := 0

	for recordsSeen < maxRecords {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if isEmptyRecord(record) {
			continue
		}
		recordsSeen++

		if len(record) < 2 {
			continue
		}
		counts[len(record)]++
	}

	best := 0
	for _, score := range counts {
		if score > best {
			best = score
		}
	}
	return best, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	if len(record) < 2 {
		return false
	}
	left := strings.ToLower(strings.TrimSpace(record[0]))
	right := strings.ToLower(strings.TrimSpace(record[1]))
	headers := map[string]struct{}{
		"word":       {},
		"term":       {},
		"definition": {},
		"meaning":    {},
	}
	_, leftOK := headers[left]
	_, rightOK := headers[right]
	return leftOK && rightOK
}

// BuildExportCSV writes records with a UTF-8 BOM and CRLF line endings so
// spreadsheet tools open it cleanly. Mastered records have an empty
// next_review cell.
func BuildExportCSV(records []vocab.Record) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, record := range records {
		next := ""
		if record.NextReviewDate != nil {
			next = record.NextReviewDate.UTC().Format("2006-01-02")
		}
		row := []string{
			record.Word,
			record.Definition,
			record.Example,
			record.Synonyms,
			strconv.Itoa(record.ReviewLevel),
			next,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("vocabulary-%s.csv", now.Format("20060102"))
}
