// Package trainer is the entry point presentation layers use: it owns one
// record store and one review session and persists after every completed
// session.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/review"
	"github.com/smith3v/vocab-trainer/pkg/srs"
	"github.com/smith3v/vocab-trainer/pkg/store"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

type Trainer struct {
	store   *store.Store
	session *review.Session
	now     func() time.Time
	log     *slog.Logger

	saveCtx     context.Context
	saveErr     error
	lastSummary *review.Summary
}

type Option func(*options)

type options struct {
	now      func() time.Time
	schedule *srs.Schedule
	log      *slog.Logger
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithSchedule(schedule *srs.Schedule) Option {
	return func(o *options) {
		if schedule != nil {
			o.schedule = schedule
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// New builds a trainer whose list lives under key in kv.
func New(kv store.KV, key string, opts ...Option) *Trainer {
	o := options{now: time.Now, schedule: srs.DefaultSchedule()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.With("component", "trainer", "key", key)
	}

	t := &Trainer{now: o.now, log: o.log}
	t.store = store.New(kv, key, o.schedule, store.WithClock(o.now), store.WithLogger(o.log))
	t.session = review.New(t.store, o.schedule,
		review.WithClock(o.now),
		review.WithLogger(o.log),
		review.OnComplete(t.sessionCompleted),
	)
	return t
}

// sessionCompleted persists the feedback of a finished session. It runs
// inside SubmitFeedback, which reports saveErr to its caller.
func (t *Trainer) sessionCompleted(summary review.Summary) {
	t.lastSummary = &summary
	ctx := t.saveCtx
	if ctx == nil {
		ctx = context.Background()
	}
	t.saveErr = t.store.Save(ctx)
	if t.saveErr != nil {
		t.log.Error("failed to save after review session", "reviewed", summary.Reviewed, "error", t.saveErr)
		return
	}
	t.log.Info("review session saved", "reviewed", summary.Reviewed, "mastered", summary.Mastered)
}

// Load replaces the in-memory list with the stored one and resets any review
// in progress. Unreadable stored data leaves an empty list; see Recovered.
func (t *Trainer) Load(ctx context.Context) error {
	if err := t.store.Load(ctx); err != nil {
		return err
	}
	t.session = review.New(t.store, t.store.Schedule(),
		review.WithClock(t.now),
		review.WithLogger(t.log),
		review.OnComplete(t.sessionCompleted),
	)
	return nil
}

func (t *Trainer) Recovered() bool {
	return t.store.Recovered()
}

// AddWord adds and immediately saves a record. On a save failure the record
// is kept in memory and returned together with an ErrPersistence error.
func (t *Trainer) AddWord(ctx context.Context, word, definition, example, synonyms string) (vocab.Record, error) {
	record, err := t.store.Add(word, definition, example, synonyms, t.now())
	if err != nil {
		return vocab.Record{}, err
	}
	if err := t.store.Save(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// BatchResult counts the outcome of AddWords.
type BatchResult struct {
	Added      int
	Duplicates int
	Skipped    int
}

// Entry is one candidate record for AddWords.
type Entry struct {
	Word       string
	Definition string
	Example    string
	Synonyms   string
}

// AddWords adds entries with AddWord semantics and saves once at the end.
// Invalid entries are skipped and duplicates counted; neither stops the batch.
func (t *Trainer) AddWords(ctx context.Context, entries []Entry) (BatchResult, error) {
	var result BatchResult
	now := t.now()
	for _, entry := range entries {
		_, err := t.store.Add(entry.Word, entry.Definition, entry.Example, entry.Synonyms, now)
		switch {
		case err == nil:
			result.Added++
		case errors.Is(err, vocab.ErrDuplicateWord):
			result.Duplicates++
		case errors.Is(err, vocab.ErrInvalidInput):
			result.Skipped++
		default:
			return result, fmt.Errorf("add %q: %w", entry.Word, err)
		}
	}
	if result.Added == 0 {
		return result, nil
	}
	if err := t.store.Save(ctx); err != nil {
		return result, err
	}
	return result, nil
}

func (t *Trainer) ListRecords() []vocab.Record {
	return t.store.List()
}

func (t *Trainer) DueCount(now time.Time) int {
	return t.store.DueCount(now)
}

// StartReview begins a session over the records due at now. It returns
// vocab.ErrNothingDue when there are none.
func (t *Trainer) StartReview(now time.Time) error {
	return t.session.Start(now)
}

func (t *Trainer) Reviewing() bool {
	return t.session.State() == review.InProgress
}

func (t *Trainer) CurrentCard() (vocab.Record, bool) {
	return t.session.Current()
}

func (t *Trainer) RevealCurrentCard() {
	t.session.Reveal()
}

func (t *Trainer) Revealed() bool {
	return t.session.Revealed()
}

// Position returns the current card index and the session length.
func (t *Trainer) Position() (int, int) {
	return t.session.Position()
}

// CardToken identifies the card currently shown. It is empty while idle.
func (t *Trainer) CardToken() string {
	return t.session.Token()
}

// SubmitFeedback applies the outcome to the current card. When it completes
// the session the list is saved; a failed save is returned as an
// ErrPersistence error next to the valid step result.
func (t *Trainer) SubmitFeedback(ctx context.Context, remembered bool) (review.StepResult, error) {
	t.saveCtx = ctx
	t.saveErr = nil
	defer func() { t.saveCtx = nil }()

	step := t.session.SubmitFeedback(remembered)
	if step.Completed && t.saveErr != nil {
		return step, t.saveErr
	}
	return step, nil
}

// Save writes the full list. Use it to retry after an ErrPersistence error.
func (t *Trainer) Save(ctx context.Context) error {
	return t.store.Save(ctx)
}

// LastSummary returns the summary of the most recently completed session.
func (t *Trainer) LastSummary() (review.Summary, bool) {
	if t.lastSummary == nil {
		return review.Summary{}, false
	}
	return *t.lastSummary, true
}

type Stats struct {
	Total    int
	Due      int
	Mastered int
	// ByLevel counts records per review level, mastered ones at MaxLevel.
	ByLevel []int
}

func (t *Trainer) Stats(now time.Time) Stats {
	maxLevel := t.store.Schedule().MaxLevel()
	stats := Stats{ByLevel: make([]int, maxLevel+1)}
	for _, record := range t.store.All() {
		stats.Total++
		if record.Mastered() {
			stats.Mastered++
		}
		if srs.IsDue(record.NextReviewDate, now) {
			stats.Due++
		}
		if record.ReviewLevel >= 0 && record.ReviewLevel <= maxLevel {
			stats.ByLevel[record.ReviewLevel]++
		}
	}
	return stats
}
