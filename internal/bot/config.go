package bot

import (
	"fmt"
	"os"
)

// Config holds the bot's runtime settings
type Config struct {
	// Telegram bot token
	Token string
	// Long-polling timeout in seconds
	UpdateTimeout int
}

// ConfigFromEnv reads the bot configuration from the environment.
func ConfigFromEnv() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	return &Config{
		Token:         token,
		UpdateTimeout: 60,
	}, nil
}
