// Package reminders sends a daily "words due" message to every known user.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	users "github.com/smith3v/vocab-trainer/pkg/bot"
	"github.com/smith3v/vocab-trainer/pkg/config"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/trainer"
)

// Sender delivers a plain text message to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// KeyLister lists storage keys by prefix.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type Notifier struct {
	keys     KeyLister
	registry *users.Registry
	sender   Sender
}

func NewNotifier(keys KeyLister, registry *users.Registry, sender Sender) *Notifier {
	return &Notifier{keys: keys, registry: registry, sender: sender}
}

// Notify messages every user with at least one due word and returns how many
// reminders were sent. A failure for one user does not stop the others.
func (n *Notifier) Notify(ctx context.Context) (int, error) {
	keys, err := n.keys.Keys(ctx, users.KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	sent := 0
	for _, key := range keys {
		userID, ok := users.UserIDFromKey(key)
		if !ok {
			logger.Warn("skipping unexpected storage key", "key", key)
			continue
		}

		due := 0
		if err := n.registry.With(ctx, userID, func(tr *trainer.Trainer) error {
			due = tr.DueCount(n.registry.Now())
			return nil
		}); err != nil {
			logger.Error("failed to load vocabulary for reminder", "user_id", userID, "error", err)
			continue
		}
		if due == 0 {
			continue
		}

		if err := n.sender.SendMessage(ctx, userID, reminderText(due)); err != nil {
			logger.Error("failed to send reminder", "user_id", userID, "error", err)
			continue
		}
		sent++
	}
	logger.Info("sent due reminders", "users", len(keys), "sent", sent)
	return sent, nil
}

func reminderText(due int) string {
	if due == 1 {
		return "You have 1 word due. Send /review to start."
	}
	return fmt.Sprintf("You have %d words due. Send /review to start.", due)
}

// Scheduler runs Notify once a day at the configured local time.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  *Notifier
	at        string
}

func NewScheduler(cfg config.RemindersConfig, notifier *Notifier) (*Scheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load reminder timezone: %w", err)
		}
	}
	at := cfg.At
	if at == "" {
		at = "09:00"
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		notifier:  notifier,
		at:        at,
	}, nil
}

// Start schedules the daily job without blocking. Jobs run with ctx until
// Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		if _, err := s.notifier.Notify(ctx); err != nil {
			logger.Error("failed to send due reminders", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	logger.Info("due reminders scheduled", "at", s.at, "timezone", s.scheduler.Location().String())
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextRun reports when the daily job fires next.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}
