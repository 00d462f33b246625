// Package config loads application settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application settings
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Log       LogConfig       `yaml:"log"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	ExportDir string          `yaml:"export_dir"`
}

// DatabaseConfig selects the database driver and connection string
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite3 or postgres
	DSN    string `yaml:"dsn"`
}

// AnalysisConfig holds the defaults of an analysis run
type AnalysisConfig struct {
	StudentID int64  `yaml:"student_id"` // 0 means not set
	Scope     string `yaml:"scope"`
}

// LogConfig selects the logger mode
type LogConfig struct {
	Mode string `yaml:"mode"` // development or production
}

// TelegramConfig holds the bot settings
type TelegramConfig struct {
	Token        string  `yaml:"-"` // only from the environment
	AdminUserIDs []int64 `yaml:"admin_user_ids"`
}

// SchedulerConfig holds the periodic analysis settings
type SchedulerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron expression
	Timezone string `yaml:"timezone"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "data/eduprofile.db",
		},
		Analysis: AnalysisConfig{
			Scope: "all",
		},
		Log: LogConfig{
			Mode: "development",
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 6 * * *",
			Timezone: "UTC",
		},
		ExportDir: "reports",
	}
}

// Load builds the configuration. path is an optional YAML file; a missing
// .env file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DATABASE_URL", c.Database.DSN)
	c.Analysis.Scope = getEnv("ANALYSIS_SCOPE", c.Analysis.Scope)
	c.Log.Mode = getEnv("LOG_MODE", c.Log.Mode)
	c.Telegram.Token = getEnv("TELEGRAM_BOT_TOKEN", c.Telegram.Token)
	c.Scheduler.Enabled = getEnvBool("ENABLE_SCHEDULER", c.Scheduler.Enabled)
	c.Scheduler.Schedule = getEnv("ANALYSIS_SCHEDULE", c.Scheduler.Schedule)
	c.Scheduler.Timezone = getEnv("SCHEDULER_TIMEZONE", c.Scheduler.Timezone)
	c.ExportDir = getEnv("EXPORT_DIR", c.ExportDir)

	id, err := getEnvInt64("STUDENT_ID", c.Analysis.StudentID)
	if err != nil {
		return err
	}
	c.Analysis.StudentID = id

	if v := os.Getenv("ADMIN_USER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return fmt.Errorf("ADMIN_USER_IDS: %w", err)
		}
		c.Telegram.AdminUserIDs = ids
	}
	return nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	switch c.Analysis.Scope {
	case "all", "current_class":
	default:
		return fmt.Errorf("unsupported analysis scope %q", c.Analysis.Scope)
	}
	if c.Analysis.StudentID < 0 {
		return fmt.Errorf("invalid student id %d", c.Analysis.StudentID)
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.Schedule) == "" {
		return errors.New("scheduler enabled without a schedule")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
