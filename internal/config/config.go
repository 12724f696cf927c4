// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DotEnvFiles are loaded, when present, before the environment is parsed.
// Variables already set in the environment win.
var DotEnvFiles = []string{".env.local", ".env"}

// Config is the server configuration.
type Config struct {
	APIKey   string `env:"GEMINI_API_KEY"`
	Model    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI        string `env:"MONGODB_URI"`
	MongoDB         string `env:"MONGODB_DB" envDefault:"kinchat"`
	MongoCollection string `env:"MONGODB_COLLECTION" envDefault:"exchanges"`
	ExchangeBuffer  int    `env:"EXCHANGE_BUFFER" envDefault:"256"`

	MaxUploadMemory int64    `env:"MAX_UPLOAD_MEMORY" envDefault:"33554432"`
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// ClientConfig is the terminal chat client configuration.
type ClientConfig struct {
	ServerURL string `env:"KINCHAT_URL" envDefault:"http://localhost:8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load reads the dotenv files and parses the server configuration.
func Load() (Config, error) {
	if err := loadDotEnv(DotEnvFiles...); err != nil {
		return Config{}, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	return cfg, nil
}

// LoadClient reads the dotenv files and parses the chat client configuration.
func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(DotEnvFiles...); err != nil {
		return ClientConfig{}, err
	}

	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("config: parse environment: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}
