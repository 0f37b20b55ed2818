// Package auth obtains an authenticated Google Calendar service via the
// OAuth 2.0 authorization-code flow, caching the token on disk.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile holds the Google API credentials.json downloaded
	// from the cloud console, placed in the taskcheck config dir.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the obtained OAuth token (access + refresh).
	TokenFile = "token.json"

	// localhostAuthPort is where the local server listens for the OAuth
	// redirect during the initial authorization.
	localhostAuthPort = "6789"

	xdgAppName = "taskcheck"
)

// GetXdgHome returns the taskcheck config directory.
func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

// getConfig builds the oauth2 config from the client secrets file, forcing
// the redirect onto our local callback server.
func getConfig(scopes []string) (*oauth2.Config, error) {
	configDir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(filepath.Join(configDir, ClientSecretsFile))
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", localhostAuthPort)
	return cfg, nil
}

// getClient returns an HTTP client with a valid token: loaded from disk and
// auto-refreshed when possible, otherwise obtained through the web flow.
func getClient(ctx context.Context, log zerolog.Logger, scopes []string) (*http.Client, error) {
	cfg, err := getConfig(scopes)
	if err != nil {
		return nil, err
	}

	configDir, err := GetXdgHome()
	if err != nil {
		return nil, err
	}
	tokenFile := filepath.Join(configDir, TokenFile)

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		log.Info().Str("token_file", tokenFile).Msg("no cached token, starting web authorization flow")
		tok, err = getTokenFromWeb(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(tokenFile, tok); err != nil {
			log.Warn().Err(err).Msg("could not cache OAuth token")
		}
	}
	return cfg.Client(ctx, tok), nil
}

// getTokenFromWeb runs the authorization-code flow: a local server captures
// the redirect while the user grants access in a browser.
func getTokenFromWeb(cfg *oauth2.Config) (*oauth2.Token, error) {
	codeCh := make(chan string)
	errCh := make(chan error)

	listener, err := net.Listen("tcp", ":"+localhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", localhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect URL")
				return
			}
			fmt.Fprint(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// AccessTypeOffline ensures a refresh token is returned.
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Printf("Open the following URL in your browser to authorize taskcheck:\n%s\n", authURL)

	select {
	case authCode := <-codeCh:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tok, err := cfg.Exchange(ctx, authCode)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		server.Shutdown(ctx)
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(5 * time.Minute):
		server.Shutdown(context.Background())
		return nil, fmt.Errorf("authorization timed out, please try again")
	}
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// RemoveToken deletes the cached token, forcing a fresh authorization.
func RemoveToken() error {
	configDir, err := GetXdgHome()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(configDir, TokenFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// GetCalendarService creates a read-only Google Calendar service; taskcheck
// only ever lists events.
func GetCalendarService(ctx context.Context, log zerolog.Logger) (*calendar.Service, error) {
	client, err := getClient(ctx, log, []string{calendar.CalendarReadonlyScope})
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client for Calendar API: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Calendar service: %w", err)
	}
	return srv, nil
}
