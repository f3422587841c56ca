// Package vocab defines the vocabulary record and the error kinds shared by
// the record store, the review session and their callers.
package vocab

import (
	"time"

	"github.com/google/uuid"
)

// Record is one word entry tracked by the scheduler. NextReviewDate is nil
// once the record is mastered.
type Record struct {
	ID             string
	Word           string
	Definition     string
	Example        string
	Synonyms       string
	LearnedDate    time.Time
	ReviewLevel    int
	NextReviewDate *time.Time
}

func NewID() string {
	return uuid.NewString()
}

func (r Record) Mastered() bool {
	return r.NextReviewDate == nil
}

// Clone returns a copy that shares no pointers with r.
func (r Record) Clone() Record {
	if r.NextReviewDate != nil {
		next := *r.NextReviewDate
		r.NextReviewDate = &next
	}
	return r
}
