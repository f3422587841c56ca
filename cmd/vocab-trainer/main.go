package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"
	users "github.com/smith3v/vocab-trainer/pkg/bot"
	"github.com/smith3v/vocab-trainer/pkg/bot/handlers"
	"github.com/smith3v/vocab-trainer/pkg/bot/reminders"
	"github.com/smith3v/vocab-trainer/pkg/config"
	"github.com/smith3v/vocab-trainer/pkg/db"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/smith3v/vocab-trainer/pkg/srs"
)

type botSender struct {
	b *bot.Bot
}

func (s botSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env file", "error", err)
	}

	if err := config.LoadConfig(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	schedule, err := srs.NewSchedule(config.AppConfig.Schedule.Intervals)
	if err != nil {
		logger.Error("invalid review schedule", "error", err)
		os.Exit(1)
	}

	if err := db.InitDB(config.AppConfig.Database, config.AppConfig.Logging.GormLevel); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv := db.NewKV(db.DB)
	registry := users.NewRegistry(kv, schedule, nil)
	h := handlers.New(registry)

	b, err := bot.New(config.AppConfig.Telegram.Token, bot.WithDefaultHandler(h.DefaultHandler))
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}
	h.Register(b)

	if config.AppConfig.Reminders.Enabled {
		scheduler, err := reminders.NewScheduler(config.AppConfig.Reminders, reminders.NewNotifier(kv, registry, botSender{b: b}))
		if err != nil {
			logger.Error("failed to configure reminders", "error", err)
			os.Exit(1)
		}
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("failed to start reminders", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	logger.Info("Starting bot...", "database", config.AppConfig.Database.Driver)
	b.Start(ctx)
}
