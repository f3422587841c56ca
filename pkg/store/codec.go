package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

// persistedRecord is the stored layout. Dates are RFC 3339 strings in UTC;
// nextReviewDate is null for mastered records. example and synonyms may be
// missing in older data and decode to empty strings.
type persistedRecord struct {
	ID             string     `json:"id"`
	Word           string     `json:"word"`
	Definition     string     `json:"definition"`
	Example        string     `json:"example"`
	Synonyms       string     `json:"synonyms"`
	LearnedDate    time.Time  `json:"learnedDate"`
	ReviewLevel    int        `json:"reviewLevel"`
	NextReviewDate *time.Time `json:"nextReviewDate"`
}

func encodeRecords(records []*vocab.Record) ([]byte, error) {
	out := make([]persistedRecord, 0, len(records))
	for _, record := range records {
		row := persistedRecord{
			ID:          record.ID,
			Word:        record.Word,
			Definition:  record.Definition,
			Example:     record.Example,
			Synonyms:    record.Synonyms,
			LearnedDate: record.LearnedDate.UTC(),
			ReviewLevel: record.ReviewLevel,
		}
		if record.NextReviewDate != nil {
			next := record.NextReviewDate.UTC()
			row.NextReviewDate = &next
		}
		out = append(out, row)
	}
	return json.Marshal(out)
}

func decodeRecords(raw []byte) ([]*vocab.Record, error) {
	var rows []persistedRecord
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", vocab.ErrCorruptState, err)
	}
	records := make([]*vocab.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, &vocab.Record{
			ID:             row.ID,
			Word:           row.Word,
			Definition:     row.Definition,
			Example:        row.Example,
			Synonyms:       row.Synonyms,
			LearnedDate:    row.LearnedDate,
			ReviewLevel:    row.ReviewLevel,
			NextReviewDate: row.NextReviewDate,
		})
	}
	return records, nil
}
