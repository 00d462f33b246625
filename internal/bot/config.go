package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	Token string
	// Telegram users allowed to run admin commands
	AdminUserIDs []int64
	// Upper bound for the analysis started by a single command
	RequestTimeout time.Duration
	// Long polling timeout in seconds
	UpdateTimeout int
	// Updates handled at the same time
	MaxConcurrentUpdates int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		RequestTimeout:       2 * time.Minute,
		UpdateTimeout:        60,
		MaxConcurrentUpdates: 16,
	}
}
