// Package config loads the web server settings from defaults, an optional
// .env file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const EnvDevelopment = "development"

type Config struct {
	Environment   string
	Addr          string
	APIBaseURL    string
	APITimeout    time.Duration
	SessionSecret string
	CookieSecure  bool
	DatabaseURL   string
	LogLevel      string
	EnvFile       string
}

func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// AuditEnabled reports whether auth events go to the database.
func (c Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("ADDR must not be empty")
	}
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT_SECONDS must be positive")
	}
	if c.SessionSecret == "" && !c.IsDevelopment() {
		return errors.New("SESSION_SECRET is required outside development")
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	return nil
}

// Load parses args (without the program name) and returns the merged config.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("primmfy-web", pflag.ContinueOnError)
	addr := flags.String("addr", "", "listen address (ADDR)")
	apiURL := flags.String("api-url", "", "platform API base URL (API_BASE_URL)")
	envFile := flags.String("env-file", ".env", "dotenv file to read before the environment")
	logLevel := flags.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadDotenv(*envFile); err != nil {
		return Config{}, err
	}

	timeout, err := getInt("API_TIMEOUT_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	secure, err := getBool("COOKIE_SECURE", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:   getEnv("APP_ENV", EnvDevelopment),
		Addr:          getEnv("ADDR", ":3000"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8080/api"),
		APITimeout:    time.Duration(timeout) * time.Second,
		SessionSecret: getEnv("SESSION_SECRET", ""),
		CookieSecure:  secure,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnvFile:       *envFile,
	}

	if flags.Changed("addr") {
		cfg.Addr = *addr
	}
	if flags.Changed("api-url") {
		cfg.APIBaseURL = *apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotenv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

// getInt reads key as an integer. An unset or blank variable yields
// fallback; anything else that does not parse is an error.
func getInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, value)
	}
	return parsed, nil
}
