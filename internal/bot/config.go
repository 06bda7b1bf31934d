package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Chat allowed to use the bot; 0 lets the first chat that sends /start claim it
	OwnerChatID int64
	// Words per test when no preference is stored
	DefaultWordsPerTest int
	// Long polling timeout in seconds
	UpdateTimeout int
	// Timeout for downloading an uploaded word list
	DownloadTimeout time.Duration
	// Learned words shown by /words
	MaxListedWords int
	// Largest word list accepted by /import, in bytes
	MaxImportSize int64
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		DefaultWordsPerTest: 10,
		UpdateTimeout:       60,
		DownloadTimeout:     30 * time.Second,
		MaxListedWords:      20,
		MaxImportSize:       10 << 20,
	}
}

// WordsPerTestChoices are offered in the settings menu
var WordsPerTestChoices = []int{5, 10, 15, 20}
