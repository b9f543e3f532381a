package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"GOOGLE_CALENDAR_ID", "GOOGLE_CREDENTIALS_FILE", "GOOGLE_TOKEN_FILE",
		"REQUEST_TIMEOUT_SECONDS", "REQUEST_DELAY_SECONDS", "MAX_RETRIES",
		"GONGMO_DATA_DIR", "GONGMO_DOCS_DIR", "GIT_REMOTE", "GIT_BRANCH", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	s := Load()

	if s.CredentialsFile != "credentials.json" {
		t.Errorf("unexpected credentials file: %q", s.CredentialsFile)
	}
	if s.TokenFile != "token.json" {
		t.Errorf("unexpected token file: %q", s.TokenFile)
	}
	if s.RequestTimeout != 10*time.Second {
		t.Errorf("unexpected timeout: %s", s.RequestTimeout)
	}
	if s.RequestDelay != 1500*time.Millisecond {
		t.Errorf("unexpected delay: %s", s.RequestDelay)
	}
	if s.MaxRetries != 3 {
		t.Errorf("unexpected retries: %d", s.MaxRetries)
	}
	if s.DataDir != "data" || s.DocsDir != "docs" {
		t.Errorf("unexpected dirs: %q %q", s.DataDir, s.DocsDir)
	}
	if s.GitRemote != "origin" || s.GitBranch != "main" {
		t.Errorf("unexpected git settings: %q %q", s.GitRemote, s.GitBranch)
	}
	if s.LogLevel != "info" {
		t.Errorf("unexpected log level: %q", s.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_ID", "abc@group.calendar.google.com")
	t.Setenv("REQUEST_DELAY_SECONDS", "0.5")
	t.Setenv("MAX_RETRIES", "5")

	s := Load()

	if s.CalendarID != "abc@group.calendar.google.com" {
		t.Errorf("unexpected calendar id: %q", s.CalendarID)
	}
	if s.RequestDelay != 500*time.Millisecond {
		t.Errorf("fractional seconds should parse: %s", s.RequestDelay)
	}
	if s.MaxRetries != 5 {
		t.Errorf("unexpected retries: %d", s.MaxRetries)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "-2")

	s := Load()

	if s.MaxRetries != 3 {
		t.Errorf("invalid int should fall back: %d", s.MaxRetries)
	}
	if s.RequestTimeout != 10*time.Second {
		t.Errorf("negative duration should fall back: %s", s.RequestTimeout)
	}
}

func TestRequireCalendarID(t *testing.T) {
	s := &Settings{}
	if _, err := s.RequireCalendarID(); err == nil {
		t.Error("expected error when calendar id is unset")
	}

	s.CalendarID = "abc"
	id, err := s.RequireCalendarID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "abc" {
		t.Errorf("unexpected id: %q", id)
	}
}
