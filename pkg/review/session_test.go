package review

import (
	"testing"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/srs"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecords struct {
	list []*vocab.Record
}

func (f *fakeRecords) All() []*vocab.Record {
	return append([]*vocab.Record(nil), f.list...)
}

func (f *fakeRecords) FindByID(id string) (*vocab.Record, bool) {
	for _, record := range f.list {
		if record.ID == id {
			return record, true
		}
	}
	return nil, false
}

func (f *fakeRecords) remove(id string) {
	kept := f.list[:0]
	for _, record := range f.list {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	f.list = kept
}

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func record(id string, level int, next *time.Time) *vocab.Record {
	return &vocab.Record{
		ID:             id,
		Word:           "word-" + id,
		Definition:     "definition of " + id,
		LearnedDate:    at(2024, 12, 1, 9),
		ReviewLevel:    level,
		NextReviewDate: next,
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}

func newSession(records Records, now time.Time, opts ...Option) *Session {
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return New(records, srs.DefaultSchedule(), opts...)
}

func TestStartNothingDue(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{
		record("future", 0, ptr(at(2025, 1, 11, 0))),
		record("mastered", 4, nil),
	}}
	s := newSession(records, today)

	err := s.Start(today)
	require.ErrorIs(t, err, vocab.ErrNothingDue)
	assert.Equal(t, Idle, s.State())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestFullSessionOldestFirst(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{
		record("b", 1, ptr(at(2025, 1, 9, 8))),
		record("a", 0, ptr(at(2025, 1, 5, 8))),
		record("c", 3, ptr(at(2025, 1, 10, 23))),
		record("later", 0, ptr(at(2025, 1, 11, 1))),
	}}

	var completed []Summary
	s := newSession(records, today, OnComplete(func(sum Summary) { completed = append(completed, sum) }))
	require.NoError(t, s.Start(today))
	assert.Equal(t, InProgress, s.State())

	index, total := s.Position()
	assert.Equal(t, 0, index)
	assert.Equal(t, 3, total)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", current.ID)

	step := s.SubmitFeedback(true)
	require.True(t, step.Continuing)
	require.NotNil(t, step.NextCard)
	assert.Equal(t, "b", step.NextCard.ID)

	step = s.SubmitFeedback(false)
	require.True(t, step.Continuing)
	assert.Equal(t, "c", step.NextCard.ID)

	step = s.SubmitFeedback(true)
	assert.False(t, step.Continuing)
	assert.True(t, step.Completed)
	assert.Nil(t, step.NextCard)
	assert.Equal(t, Idle, s.State())

	require.Len(t, completed, 1)
	sum := completed[0]
	assert.Equal(t, 3, sum.Reviewed)
	assert.Equal(t, 2, sum.Remembered)
	assert.Equal(t, 1, sum.Forgotten)
	assert.Equal(t, 1, sum.Mastered)
	assert.Equal(t, []string{"a", "b", "c"}, sum.MutatedIDs)

	a, _ := records.FindByID("a")
	assert.Equal(t, 1, a.ReviewLevel)
	assert.True(t, a.NextReviewDate.Equal(today.AddDate(0, 0, 3)))

	b, _ := records.FindByID("b")
	assert.Equal(t, 0, b.ReviewLevel)
	assert.True(t, b.NextReviewDate.Equal(today.AddDate(0, 0, 1)))

	c, _ := records.FindByID("c")
	assert.Equal(t, 4, c.ReviewLevel)
	assert.Nil(t, c.NextReviewDate)

	later, _ := records.FindByID("later")
	assert.Equal(t, 0, later.ReviewLevel)
	assert.True(t, later.NextReviewDate.Equal(at(2025, 1, 11, 1)))
}

func TestEqualDueDatesKeepStoreOrder(t *testing.T) {
	today := at(2025, 1, 10, 12)
	same := at(2025, 1, 9, 8)
	records := &fakeRecords{list: []*vocab.Record{
		record("x", 0, ptr(same)),
		record("y", 0, ptr(same)),
		record("z", 0, ptr(same)),
	}}
	s := newSession(records, today)
	require.NoError(t, s.Start(today))

	var order []string
	for s.State() == InProgress {
		current, ok := s.Current()
		require.True(t, ok)
		order = append(order, current.ID)
		s.SubmitFeedback(true)
	}
	assert.Equal(t, []string{"x", "y", "z"}, order)
}

func TestSubmitFeedbackWhileIdleIsNoop(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{record("a", 0, ptr(at(2025, 1, 9, 8)))}}
	calls := 0
	s := newSession(records, today, OnComplete(func(Summary) { calls++ }))

	step := s.SubmitFeedback(true)
	assert.Equal(t, StepResult{}, step)
	a, _ := records.FindByID("a")
	assert.Equal(t, 0, a.ReviewLevel)
	assert.Zero(t, calls)
}

func TestMissingRecordIsSkipped(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{
		record("a", 0, ptr(at(2025, 1, 5, 8))),
		record("gone", 0, ptr(at(2025, 1, 6, 8))),
		record("c", 0, ptr(at(2025, 1, 7, 8))),
	}}
	var sum Summary
	s := newSession(records, today, OnComplete(func(got Summary) { sum = got }))
	require.NoError(t, s.Start(today))

	records.remove("gone")

	step := s.SubmitFeedback(true)
	require.True(t, step.Continuing)
	assert.Equal(t, "c", step.NextCard.ID)

	index, total := s.Position()
	assert.Equal(t, 2, index)
	assert.Equal(t, 3, total)

	step = s.SubmitFeedback(true)
	assert.True(t, step.Completed)
	assert.Equal(t, 2, sum.Reviewed)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, []string{"a", "c"}, sum.MutatedIDs)
}

func TestFeedbackMutatesLiveRecord(t *testing.T) {
	today := at(2025, 1, 10, 12)
	live := record("a", 2, ptr(at(2025, 1, 10, 6)))
	records := &fakeRecords{list: []*vocab.Record{live}}
	s := newSession(records, today)
	require.NoError(t, s.Start(today))

	current, ok := s.Current()
	require.True(t, ok)
	current.ReviewLevel = 0

	s.SubmitFeedback(true)
	assert.Equal(t, 3, live.ReviewLevel)
	assert.True(t, live.NextReviewDate.Equal(today.AddDate(0, 0, 30)))
}

func TestRevealResetsOnAdvance(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{
		record("a", 0, ptr(at(2025, 1, 5, 8))),
		record("b", 0, ptr(at(2025, 1, 6, 8))),
	}}
	s := newSession(records, today)

	s.Reveal()
	assert.False(t, s.Revealed(), "reveal ignored while idle")

	require.NoError(t, s.Start(today))
	firstToken := s.Token()
	assert.NotEmpty(t, firstToken)

	s.Reveal()
	assert.True(t, s.Revealed())
	a, _ := records.FindByID("a")
	assert.Equal(t, 0, a.ReviewLevel, "reveal leaves scheduling untouched")

	s.SubmitFeedback(false)
	assert.False(t, s.Revealed())
	assert.NotEqual(t, firstToken, s.Token())
}

func TestStartWhileInProgressRestarts(t *testing.T) {
	today := at(2025, 1, 10, 12)
	records := &fakeRecords{list: []*vocab.Record{
		record("a", 0, ptr(at(2025, 1, 5, 8))),
		record("b", 0, ptr(at(2025, 1, 6, 8))),
	}}
	s := newSession(records, today)
	require.NoError(t, s.Start(today))
	s.SubmitFeedback(true)

	require.NoError(t, s.Start(today))
	index, total := s.Position()
	assert.Equal(t, 0, index)
	assert.Equal(t, 1, total, "a was rescheduled and is no longer due")
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", current.ID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "in_progress", InProgress.String())
}
