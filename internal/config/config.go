package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// Employee directory (identity checks) and results store.
	DirectoryDBPath string `env:"DIRECTORY_DB_PATH" envDefault:"data/directory.db"`
	RedisURL        string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// Game session.
	GameID            string  `env:"GAME_ID" envDefault:"trivia-night"`
	AdminIdentity     string  `env:"ADMIN_IDENTITY" envDefault:"host@example.com"`
	AdminPasswordHash string  `env:"ADMIN_PASSWORD_HASH"`
	QuestionText      string  `env:"QUESTION_TEXT" envDefault:"In which year was the company founded?"`
	CorrectAnswer     string  `env:"CORRECT_ANSWER" envDefault:"2019"`
	PhotoSeconds      int     `env:"PHOTO_SECONDS" envDefault:"10"`
	QuestionSeconds   int     `env:"QUESTION_SECONDS" envDefault:"10"`
	MaxPoints         float64 `env:"MAX_POINTS" envDefault:"10"`

	// Conversational query service for the admin chat panel.
	GenieURL          string `env:"GENIE_URL"`
	GenieAPIKey       string `env:"GENIE_API_KEY"`
	GeniePollSeconds  int    `env:"GENIE_POLL_SECONDS" envDefault:"2"`
	GeniePollAttempts int    `env:"GENIE_POLL_ATTEMPTS" envDefault:"30"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
