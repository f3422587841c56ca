// Package bot keeps one trainer per Telegram user and serializes access to it.
package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smith3v/vocab-trainer/pkg/srs"
	"github.com/smith3v/vocab-trainer/pkg/store"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
)

// KeyPrefix prefixes every per-user storage key.
const KeyPrefix = "vocab:"

func UserKey(userID int64) string {
	return KeyPrefix + strconv.FormatInt(userID, 10)
}

// UserIDFromKey is the inverse of UserKey.
func UserIDFromKey(key string) (int64, bool) {
	if !strings.HasPrefix(key, KeyPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(key, KeyPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type userTrainer struct {
	mu      sync.Mutex
	trainer *trainer.Trainer
}

// Registry hands out per-user trainers. A trainer is created and loaded on
// first use and kept for the life of the process.
type Registry struct {
	kv       store.KV
	schedule *srs.Schedule
	now      func() time.Time

	mu    sync.Mutex
	users map[int64]*userTrainer
}

func NewRegistry(kv store.KV, schedule *srs.Schedule, now func() time.Time) *Registry {
	if schedule == nil {
		schedule = srs.DefaultSchedule()
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		kv:       kv,
		schedule: schedule,
		now:      now,
		users:    make(map[int64]*userTrainer),
	}
}

func (r *Registry) Now() time.Time {
	return r.now()
}

// With runs fn holding the user's lock. Calls for different users run
// concurrently; calls for one user run one at a time.
func (r *Registry) With(ctx context.Context, userID int64, fn func(*trainer.Trainer) error) error {
	entry := r.entry(userID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.trainer == nil {
		t := trainer.New(r.kv, UserKey(userID),
			trainer.WithClock(r.now),
			trainer.WithSchedule(r.schedule),
		)
		if err := t.Load(ctx); err != nil {
			return err
		}
		entry.trainer = t
	}
	return fn(entry.trainer)
}

func (r *Registry) entry(userID int64) *userTrainer {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.users[userID]
	if !ok {
		entry = &userTrainer{}
		r.users[userID] = entry
	}
	return entry
}
