package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/internal/config"
	"github.com/example/eduprofile/internal/database"
	"github.com/example/eduprofile/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "eduprofile",
	Short: "Learner performance analytics",
	Long: "eduprofile classifies test results, forecasts every study direction of a learner, " +
		"finds weak topics and worsening subjects and stores career-oriented recommendations.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite3 or postgres (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().String("dsn", "", "Database connection string (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().String("log-mode", "", "Logger mode: development or production (overrides LOG_MODE)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(scheduleCmd)
}

// app holds what every command needs once configuration is resolved
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	engine *analysis.Engine
}

// loadConfig reads the configuration and applies the persistent flags,
// which take the highest priority
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("log-mode"); v != "" {
		cfg.Log.Mode = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads the configuration, builds the logger, connects to the
// database and wires the analysis engine. Call close when done.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	if err := database.Connect(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Sync()
		return nil, err
	}
	log.Debug("database connected", "driver", cfg.Database.Driver)

	engine := analysis.NewEngine(
		database.NewTestResultRepository(),
		database.NewClassHistoryRepository(),
		database.NewAnalysisRepository(),
		log,
	)
	return &app{cfg: cfg, log: log, engine: engine}, nil
}

func (a *app) close() {
	if err := database.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
	a.log.Sync()
}
