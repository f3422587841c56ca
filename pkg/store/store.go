// Package store owns the canonical vocabulary list and its round trip to a
// durable key-value backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/srs"
	"github.com/smith3v/vocab-trainer/pkg/vocab"
)

const DefaultKey = "vocabularyList"

// KV is the durable storage the store needs: one value per key, written whole.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type Store struct {
	kv        KV
	key       string
	schedule  *srs.Schedule
	records   []*vocab.Record
	byID      map[string]*vocab.Record
	recovered bool
	log       *slog.Logger
	now       func() time.Time
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(kv KV, key string, schedule *srs.Schedule, opts ...Option) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if schedule == nil {
		schedule = srs.DefaultSchedule()
	}
	s := &Store{
		kv:       kv,
		key:      key,
		schedule: schedule,
		byID:     make(map[string]*vocab.Record),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.With("component", "record_store", "key", key)
	}
	return s
}

func (s *Store) Key() string {
	return s.key
}

func (s *Store) Schedule() *srs.Schedule {
	return s.schedule
}

// Load replaces the in-memory list with the persisted one. Missing data yields
// an empty list. Unreadable data also yields an empty list; Load still returns
// nil and Recovered reports true until the next successful Load.
func (s *Store) Load(ctx context.Context) error {
	s.reset(nil)
	s.recovered = false

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.recover(fmt.Errorf("%w: %w", vocab.ErrCorruptState, err))
		return nil
	}
	if !ok || len(raw) == 0 {
		s.log.Debug("no stored vocabulary, starting empty")
		return nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		s.recover(err)
		return nil
	}

	s.reset(s.repair(records))
	s.log.Debug("loaded vocabulary", "records", len(s.records))
	return nil
}

func (s *Store) recover(err error) {
	s.log.Error("failed to load vocabulary, starting with an empty list", "error", err)
	s.reset(nil)
	s.recovered = true
}

// Recovered reports whether the last Load discarded unreadable data.
func (s *Store) Recovered() bool {
	return s.recovered
}

// Save writes the full list. Failures wrap vocab.ErrPersistence.
func (s *Store) Save(ctx context.Context) error {
	raw, err := encodeRecords(s.records)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", vocab.ErrPersistence, err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.log.Error("failed to save vocabulary", "records", len(s.records), "error", err)
		return fmt.Errorf("%w: %w", vocab.ErrPersistence, err)
	}
	s.log.Debug("saved vocabulary", "records", len(s.records))
	return nil
}

type addInput struct {
	Word       string `validate:"required,max=200"`
	Definition string `validate:"required,max=2000"`
	Example    string `validate:"max=2000"`
	Synonyms   string `validate:"max=500"`
}

var validate = validator.New()

// Add appends a new record due after the first interval. It does not persist.
func (s *Store) Add(word, definition, example, synonyms string, now time.Time) (vocab.Record, error) {
	in := addInput{
		Word:       strings.TrimSpace(word),
		Definition: strings.TrimSpace(definition),
		Example:    strings.TrimSpace(example),
		Synonyms:   strings.TrimSpace(synonyms),
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return vocab.Record{}, fmt.Errorf("%w: %s failed %q", vocab.ErrInvalidInput, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return vocab.Record{}, fmt.Errorf("%w: %w", vocab.ErrInvalidInput, err)
	}
	if s.hasWord(in.Word) {
		return vocab.Record{}, fmt.Errorf("%w: %q", vocab.ErrDuplicateWord, in.Word)
	}

	next := s.schedule.InitialReview(now)
	record := &vocab.Record{
		ID:             s.newID(),
		Word:           in.Word,
		Definition:     in.Definition,
		Example:        in.Example,
		Synonyms:       in.Synonyms,
		LearnedDate:    now,
		ReviewLevel:    0,
		NextReviewDate: &next,
	}
	s.append(record)
	return record.Clone(), nil
}

func (s *Store) hasWord(word string) bool {
	for _, record := range s.records {
		if strings.EqualFold(record.Word, word) {
			return true
		}
	}
	return false
}

func (s *Store) newID() string {
	for {
		id := vocab.NewID()
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

// FindByID returns the live stored record. Callers that mutate it change the
// canonical list.
func (s *Store) FindByID(id string) (*vocab.Record, bool) {
	record, ok := s.byID[id]
	return record, ok
}

// All returns the live records in insertion order.
func (s *Store) All() []*vocab.Record {
	return append([]*vocab.Record(nil), s.records...)
}

func (s *Store) Len() int {
	return len(s.records)
}

// List returns copies sorted by word, ties kept in insertion order.
func (s *Store) List() []vocab.Record {
	out := make([]vocab.Record, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Word < out[j].Word
	})
	return out
}

func (s *Store) DueCount(now time.Time) int {
	count := 0
	for _, record := range s.records {
		if srs.IsDue(record.NextReviewDate, now) {
			count++
		}
	}
	return count
}

func (s *Store) reset(records []*vocab.Record) {
	s.records = nil
	s.byID = make(map[string]*vocab.Record, len(records))
	for _, record := range records {
		s.append(record)
	}
}

func (s *Store) append(record *vocab.Record) {
	s.records = append(s.records, record)
	s.byID[record.ID] = record
}

// repair enforces the record invariants on loaded data: unique ids, a level
// within the table, and a nil date exactly at the mastered level.
func (s *Store) repair(records []*vocab.Record) []*vocab.Record {
	maxLevel := s.schedule.MaxLevel()
	seen := make(map[string]struct{}, len(records))
	out := make([]*vocab.Record, 0, len(records))
	for _, record := range records {
		if _, dup := seen[record.ID]; record.ID == "" || dup {
			record.ID = vocab.NewID()
			s.log.Warn("assigned new id to stored record", "word", record.Word, "id", record.ID)
		}
		seen[record.ID] = struct{}{}

		switch {
		case record.ReviewLevel < 0:
			s.log.Warn("clamped stored review level", "id", record.ID, "level", record.ReviewLevel)
			record.ReviewLevel = 0
		case record.ReviewLevel > maxLevel:
			s.log.Warn("clamped stored review level", "id", record.ID, "level", record.ReviewLevel)
			record.ReviewLevel = maxLevel
		}

		if record.ReviewLevel == maxLevel && record.NextReviewDate != nil {
			s.log.Warn("cleared review date of mastered record", "id", record.ID)
			record.NextReviewDate = nil
		}
		if record.ReviewLevel < maxLevel && record.NextReviewDate == nil {
			now := s.now()
			record.NextReviewDate = &now
			s.log.Warn("scheduled unmastered record without review date", "id", record.ID)
		}
		out = append(out, record)
	}
	return out
}
