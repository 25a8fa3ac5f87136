package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	SupabaseURL   string
	SupabaseKey   string
	LogLvl        string
}

// LoadConfig reads configuration from the environment, with an optional .env
// file for local runs. Missing required values are a startup error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		LogLvl:        os.Getenv("LOG_LEVEL"),
	}
	if cfg.LogLvl == "" {
		cfg.LogLvl = "info"
	}

	for name, value := range map[string]string{
		"TELEGRAM_BOT_TOKEN": cfg.TelegramToken,
		"SUPABASE_URL":       cfg.SupabaseURL,
		"SUPABASE_KEY":       cfg.SupabaseKey,
	} {
		if value == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", name)
		}
	}

	return cfg, nil
}
