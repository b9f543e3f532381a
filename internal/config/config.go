// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Settings holds all runtime configuration for the bot.
type Settings struct {
	// Google Calendar
	CalendarID      string
	CredentialsFile string
	TokenFile       string

	// Scraping
	RequestTimeout time.Duration
	RequestDelay   time.Duration
	MaxRetries     int

	// Paths
	DataDir string
	DocsDir string

	// Site
	SiteURL string

	// Publishing
	GitRemote string
	GitBranch string

	LogLevel string
}

// Load reads settings from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() *Settings {
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded .env file")
	}

	return &Settings{
		CalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		TokenFile:       getEnv("GOOGLE_TOKEN_FILE", "token.json"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT_SECONDS", 10*time.Second),
		RequestDelay:    getEnvDuration("REQUEST_DELAY_SECONDS", 1500*time.Millisecond),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		DataDir:         getEnv("GONGMO_DATA_DIR", "data"),
		DocsDir:         getEnv("GONGMO_DOCS_DIR", "docs"),
		SiteURL:         getEnv("SITE_URL", "https://jiun.dev/gong-mo/"),
		GitRemote:       getEnv("GIT_REMOTE", "origin"),
		GitBranch:       getEnv("GIT_BRANCH", "main"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// RequireCalendarID returns the configured calendar ID or an error telling
// the user how to set it. Sync paths call this; --dry-run does not.
func (s *Settings) RequireCalendarID() (string, error) {
	if s.CalendarID == "" {
		return "", fmt.Errorf("GOOGLE_CALENDAR_ID is not set (export it or add it to .env)")
	}
	return s.CalendarID, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("Invalid %s value %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

// getEnvDuration reads a duration given in (possibly fractional) seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs < 0 {
		logrus.Warnf("Invalid %s value %q, using default %s", key, v, fallback)
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}
