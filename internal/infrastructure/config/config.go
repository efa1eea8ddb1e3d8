package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime configuration, read from config/config.yaml with
// environment-variable overrides (SERVER_ADDRESS, DB_PATH, ...).
type Config struct {
	ServerAddress   string        `mapstructure:"server_address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	DBPath    string `mapstructure:"db_path"`    // SQLite database file
	WordsPath string `mapstructure:"words_path"` // word catalog JSON

	// Review pacing. PromptDelay is the turn-taking pause between the
	// "try saying it" tap and the listen step; PlaybackFallback bounds the
	// wait for an answer-audio completion signal that never arrives.
	PromptDelay      time.Duration `mapstructure:"prompt_delay"`
	PlaybackFallback time.Duration `mapstructure:"playback_fallback"`
}

// Load reads the configuration. A missing config file is fine — defaults
// and environment variables cover everything.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetDefault("server_address", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("db_path", "tapspeak.db")
	v.SetDefault("words_path", "data/words.json")
	v.SetDefault("prompt_delay", "1s")
	v.SetDefault("playback_fallback", "15s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}
