// Package srs computes review-level transitions and due dates for the
// fixed-interval spaced repetition ladder.
package srs

import (
	"errors"
	"fmt"
	"time"
)

// DefaultIntervals maps review level to the number of days until the next
// review. Passing the last level masters a record.
var DefaultIntervals = []int{1, 3, 7, 30}

var ErrInvalidIntervals = errors.New("invalid review intervals")

// Schedule is an immutable interval table. The zero value is not usable; build
// one with NewSchedule or DefaultSchedule.
type Schedule struct {
	intervals []int
}

func NewSchedule(intervals []int) (*Schedule, error) {
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: table is empty", ErrInvalidIntervals)
	}
	for level, days := range intervals {
		if days <= 0 {
			return nil, fmt.Errorf("%w: level %d has %d days", ErrInvalidIntervals, level, days)
		}
	}
	return &Schedule{intervals: append([]int(nil), intervals...)}, nil
}

func DefaultSchedule() *Schedule {
	return &Schedule{intervals: append([]int(nil), DefaultIntervals...)}
}

// MaxLevel is the level of a mastered record, one past the last table index.
func (s *Schedule) MaxLevel() int {
	return len(s.intervals)
}

// Intervals returns a copy of the table.
func (s *Schedule) Intervals() []int {
	return append([]int(nil), s.intervals...)
}

// IntervalDays returns the spacing for level and whether level indexes the table.
func (s *Schedule) IntervalDays(level int) (int, bool) {
	if level < 0 || level >= len(s.intervals) {
		return 0, false
	}
	return s.intervals[level], true
}

// Advance maps a review outcome to the next level and due date. A nil date
// means the record is mastered. level must be a valid, non-mastered level.
func (s *Schedule) Advance(level int, remembered bool, now time.Time) (int, *time.Time) {
	if !remembered {
		next := AddDays(now, s.intervals[0])
		return 0, &next
	}

	newLevel := level + 1
	if newLevel >= s.MaxLevel() {
		return newLevel, nil
	}
	next := AddDays(now, s.intervals[newLevel])
	return newLevel, &next
}

// InitialReview is the due date given to a freshly added record.
func (s *Schedule) InitialReview(now time.Time) time.Time {
	return AddDays(now, s.intervals[0])
}

// IsDue reports whether a record with the given next review date is due on
// today's calendar day. Both sides are compared at day granularity, so the
// time of day a record was scheduled never delays it past its due day.
func IsDue(next *time.Time, today time.Time) bool {
	if next == nil {
		return false
	}
	return !StartOfDay(next.In(today.Location())).After(StartOfDay(today))
}

// StartOfDay zeroes the clock fields of t in t's own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// AddDays returns a new time n calendar days after t.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
