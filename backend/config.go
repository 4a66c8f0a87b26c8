package backend

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config is the backend configuration, read from the environment
type Config struct {
	Port   string
	DBPath string
	AI     AIConfig
}

// AIConfig points at an OpenAI compatible chat completion endpoint
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	LogDir  string
}

// Enabled reports whether generation can be offered
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// LoadConfig reads .env (when present) and then the process environment
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("QB_DB_PATH", "questionSystem.db"),
		AI: AIConfig{
			APIKey:  os.Getenv("AI_API_KEY"),
			BaseURL: os.Getenv("AI_BASE_URL"),
			Model:   os.Getenv("AI_MODEL"),
			LogDir:  getEnv("AI_LOG_DIR", "log"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
