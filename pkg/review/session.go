// Package review runs a single pass over the records due on a given day,
// applying remembered/forgotten feedback through the scheduler.
package review

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/srs"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

type State int

const (
	Idle State = iota
	InProgress
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Records is the view of the record store a session needs. FindByID must
// return the live record so feedback lands in the canonical list.
type Records interface {
	All() []*vocab.Record
	FindByID(id string) (*vocab.Record, bool)
}

// Summary describes a finished session.
type Summary struct {
	Reviewed   int
	Remembered int
	Forgotten  int
	Mastered   int
	Skipped    int
	MutatedIDs []string
}

// StepResult is returned by SubmitFeedback. NextCard is set only when
// Continuing is true.
type StepResult struct {
	Continuing bool
	Completed  bool
	NextCard   *vocab.Record
}

type Session struct {
	records    Records
	schedule   *srs.Schedule
	now        func() time.Time
	log        *slog.Logger
	onComplete []func(Summary)

	state    State
	queue    []string
	index    int
	revealed bool
	token    string
	summary  Summary
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// OnComplete registers fn to run each time a session exhausts its queue.
func OnComplete(fn func(Summary)) Option {
	return func(s *Session) {
		if fn != nil {
			s.onComplete = append(s.onComplete, fn)
		}
	}
}

func New(records Records, schedule *srs.Schedule, opts ...Option) *Session {
	if schedule == nil {
		schedule = srs.DefaultSchedule()
	}
	s := &Session{
		records:  records,
		schedule: schedule,
		now:      time.Now,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.With("component", "review_session")
	}
	return s
}

// Start snapshots the ids of every record due at now, oldest due date first.
// Records with equal due dates keep their store order. Starting while a
// session is in progress discards it and starts over.
func (s *Session) Start(now time.Time) error {
	type dueRecord struct {
		id   string
		next time.Time
	}
	var due []dueRecord
	for _, record := range s.records.All() {
		if srs.IsDue(record.NextReviewDate, now) {
			due = append(due, dueRecord{id: record.ID, next: *record.NextReviewDate})
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].next.Before(due[j].next)
	})

	if s.state == InProgress {
		s.log.Debug("restarting review session", "position", s.index, "total", len(s.queue))
	}
	s.clear()
	if len(due) == 0 {
		return vocab.ErrNothingDue
	}

	s.queue = make([]string, 0, len(due))
	for _, d := range due {
		s.queue = append(s.queue, d.id)
	}
	s.state = InProgress
	s.token = newToken()
	s.log.Debug("review session started", "due", len(s.queue))
	return nil
}

func (s *Session) State() State {
	return s.state
}

// Current returns a copy of the record under review. It does not skip ids
// that no longer resolve; those are skipped by SubmitFeedback.
func (s *Session) Current() (vocab.Record, bool) {
	if s.state != InProgress || s.index >= len(s.queue) {
		return vocab.Record{}, false
	}
	record, ok := s.records.FindByID(s.queue[s.index])
	if !ok {
		return vocab.Record{}, false
	}
	return record.Clone(), true
}

// Position returns the zero-based index of the current card and the queue length.
func (s *Session) Position() (int, int) {
	return s.index, len(s.queue)
}

// Token identifies the current card. It changes on every advance and restart.
func (s *Session) Token() string {
	return s.token
}

func (s *Session) Reveal() {
	if s.state == InProgress {
		s.revealed = true
	}
}

func (s *Session) Revealed() bool {
	return s.revealed
}

// SubmitFeedback applies the outcome to the current card and advances. It is
// a no-op while idle. Ids that no longer resolve are skipped with a warning.
func (s *Session) SubmitFeedback(remembered bool) StepResult {
	if s.state != InProgress || s.index >= len(s.queue) {
		return StepResult{}
	}

	id := s.queue[s.index]
	if record, ok := s.records.FindByID(id); ok {
		level, next := s.schedule.Advance(record.ReviewLevel, remembered, s.now())
		record.ReviewLevel = level
		record.NextReviewDate = next

		s.summary.Reviewed++
		s.summary.MutatedIDs = append(s.summary.MutatedIDs, id)
		switch {
		case !remembered:
			s.summary.Forgotten++
		case next == nil:
			s.summary.Remembered++
			s.summary.Mastered++
		default:
			s.summary.Remembered++
		}
	} else {
		s.log.Warn("queued record no longer exists, skipping", "id", id)
		s.summary.Skipped++
	}

	s.index++
	s.revealed = false
	s.token = newToken()

	for s.index < len(s.queue) {
		if record, ok := s.records.FindByID(s.queue[s.index]); ok {
			next := record.Clone()
			return StepResult{Continuing: true, NextCard: &next}
		}
		s.log.Warn("queued record no longer exists, skipping", "id", s.queue[s.index])
		s.summary.Skipped++
		s.index++
	}

	summary := s.summary
	s.clear()
	s.log.Debug("review session completed", "reviewed", summary.Reviewed, "skipped", summary.Skipped)
	for _, fn := range s.onComplete {
		fn(summary)
	}
	return StepResult{Completed: true}
}

func (s *Session) clear() {
	s.state = Idle
	s.queue = nil
	s.index = 0
	s.revealed = false
	s.token = ""
	s.summary = Summary{}
}

func newToken() string {
	return fmt.Sprintf("%x", rand.Int63())
}
