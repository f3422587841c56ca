package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smith3v/vocab-trainer/pkg/logger"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// VOCAB_TELEGRAM_TOKEN or VOCAB_DATABASE_DRIVER.
const EnvPrefix = "VOCAB"

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Reminders RemindersConfig `mapstructure:"reminders"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	Path     string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host     string `mapstructure:"host" validate:"required_if=Driver postgres"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname" validate:"required_if=Driver postgres"`
	Port     int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File      string `mapstructure:"file"`
	GormLevel string `mapstructure:"gorm_level" validate:"omitempty,oneof=silent error warn info"`
}

// ScheduleConfig holds the review interval table in days, indexed by level.
type ScheduleConfig struct {
	Intervals []int `mapstructure:"intervals" validate:"min=1,dive,gt=0"`
}

type RemindersConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	At       string `mapstructure:"at" validate:"omitempty,datetime=15:04"`
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

var AppConfig Config

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/vocab.db")
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("telegram.token", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.gorm_level", "warn")
	v.SetDefault("schedule.intervals", []int{1, 3, 7, 30})
	v.SetDefault("reminders.enabled", false)
	v.SetDefault("reminders.at", "09:00")
	v.SetDefault("reminders.timezone", "UTC")
}

// LoadConfig reads a JSON config file into AppConfig. Environment variables
// prefixed with EnvPrefix override file values. AppConfig is left untouched
// when loading or validation fails.
func LoadConfig(filename string) error {
	cfg, err := Load(filename)
	if err != nil {
		return err
	}
	AppConfig = *cfg
	return nil
}

func Load(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("json")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Error("failed to read config file", "file", filename, "error", err)
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("failed to decode config file", "file", filename, "error", err)
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		logger.Error("invalid config", "file", filename, "error", err)
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}
