// Package gcal syncs IPO offerings into a Google Calendar.
//
// Authentication supports two modes:
//  1. Service account (CI): GOOGLE_SERVICE_ACCOUNT_KEY holds the JSON key,
//     or GOOGLE_SERVICE_ACCOUNT_FILE points at it.
//  2. OAuth (local): credentials.json plus a previously issued token.json.
//     This CLI never runs an interactive browser flow; token.json is
//     provisioned out of band.
package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// AuthConfig locates the OAuth credential files.
type AuthConfig struct {
	CredentialsFile string
	TokenFile       string
}

// NewService builds an authenticated Calendar API service.
func NewService(ctx context.Context, cfg AuthConfig) (*calendar.Service, error) {
	if key := os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY"); key != "" {
		logrus.Debug("Service account 인증 (환경 변수)")
		return calendar.NewService(ctx,
			option.WithCredentialsJSON([]byte(key)),
			option.WithScopes(calendar.CalendarScope))
	}

	if file := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"); file != "" {
		logrus.Debugf("Service account 인증 (파일: %s)", file)
		return calendar.NewService(ctx,
			option.WithCredentialsFile(file),
			option.WithScopes(calendar.CalendarScope))
	}

	client, err := oauthHTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

// oauthHTTPClient builds an HTTP client from credentials.json + token.json.
// An expired token is refreshed transparently by the token source as long
// as a refresh token is present.
func oauthHTTPClient(ctx context.Context, cfg AuthConfig) (*http.Client, error) {
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"credentials.json 파일을 찾을 수 없습니다: %s (Google Cloud Console에서 OAuth 자격 증명을 다운로드하세요)",
				cfg.CredentialsFile)
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	oc, err := google.ConfigFromJSON(creds, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	return oc.Client(ctx, tok), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"token.json 파일을 찾을 수 없습니다: %s (로컬에서 한 번 인증을 완료해 토큰을 발급받으세요)", path)
		}
		return nil, fmt.Errorf("reading token: %w", err)
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	return tok, nil
}

// CheckAuth reports whether usable credentials are available without
// performing any API calls.
func CheckAuth(cfg AuthConfig) bool {
	if os.Getenv("GOOGLE_SERVICE_ACCOUNT_KEY") != "" {
		return true
	}
	if f := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"); f != "" {
		if _, err := os.Stat(f); err == nil {
			return true
		}
	}

	tok, err := loadToken(cfg.TokenFile)
	if err != nil {
		return false
	}
	return tok.Valid() || tok.RefreshToken != ""
}
