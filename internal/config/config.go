package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	NatsURL         string
	NatsToken       string
	DatabaseURL     string
	LogLevel        string
	AnthropicAPIKey string
	AnthropicModel  string
	VoxURL          string
	SlackBotToken   string
	SlackChannel    string
	UploadDir       string
	BookDir         string
	APIToken        string
}

func Load() Config {
	return Config{
		Port:            envInt("LECTOR_PORT", 8760),
		NatsURL:         envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("LECTOR_MODEL", "claude-sonnet-4-20250514"),
		VoxURL:          envStr("VOX_URL", "http://vox:8770"),
		SlackBotToken:   envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel:    envStr("SLACK_ANSWERS_CHANNEL", ""),
		UploadDir:       envStr("LECTOR_UPLOAD_DIR", "uploads"),
		BookDir:         envStr("LECTOR_BOOK_DIR", "books"),
		APIToken:        envStr("LECTOR_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
