package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from the
// environment and an optional .env file.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	FrontendOrigin string
}

// Load reads configuration from environment variables. JWT_SECRET is
// required; the database location comes either from DATABASE_URL or from
// the individual DB_* variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hospital")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")

	cfg := Config{
		Port:           v.GetString("PORT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		FrontendOrigin: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is required")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			url.QueryEscape(v.GetString("DB_USER")),
			url.QueryEscape(v.GetString("DB_PASSWORD")),
			v.GetString("DB_HOST"),
			v.GetString("DB_PORT"),
			v.GetString("DB_NAME"),
		)
	}

	return cfg, nil
}
