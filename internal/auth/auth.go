// Package auth manages the OAuth session: the client registration, the
// stored token, and HTTP clients that keep the token fresh on disk.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"todotree/internal/config"
)

// Scopes requested for the task service.
var Scopes = []string{
	"https://graph.microsoft.com/Tasks.ReadWrite",
	"offline_access",
}

// ErrNotLoggedIn indicates no stored session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// ClientConfig is the OAuth client registration stored in
// oauth_client.json. The client is public; there is no secret.
type ClientConfig struct {
	ClientID string `json:"client_id"`
	Tenant   string `json:"tenant"`
}

// LoadClientConfig reads the client registration file.
func LoadClientConfig(path string) (ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientConfig{}, err
	}
	var cc ClientConfig
	if err := json.Unmarshal(data, &cc); err != nil {
		return ClientConfig{}, fmt.Errorf("invalid %s: %w", path, err)
	}
	if cc.ClientID == "" {
		return ClientConfig{}, fmt.Errorf("invalid %s: client_id missing", path)
	}
	return cc, nil
}

// OAuth2Config builds the oauth2 configuration for a registration.
// An empty tenant defaults to personal accounts.
func OAuth2Config(cc ClientConfig) *oauth2.Config {
	tenant := cc.Tenant
	if tenant == "" {
		tenant = "consumers"
	}
	return &oauth2.Config{
		ClientID: cc.ClientID,
		Endpoint: microsoft.AzureADEndpoint(tenant),
		Scopes:   Scopes,
	}
}

// LoadToken reads a stored token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return &tok, nil
}

// SaveToken writes a token with mode 0600.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// NewHTTPClient builds an HTTP client that attaches the stored session
// and persists the token whenever a refresh produces a new one.
// Returns ErrNotLoggedIn when no session is stored.
func NewHTTPClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	cc, err := LoadClientConfig(cfg.OAuthClientPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrNotLoggedIn, cfg.Dir)
		}
		return nil, err
	}
	tok, err := LoadToken(cfg.TokenPath())
	if err != nil {
		return nil, err
	}

	src := &savingSource{
		src:  OAuth2Config(cc).TokenSource(ctx, tok),
		path: cfg.TokenPath(),
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, src), nil
}

// savingSource persists refreshed tokens so the next invocation does
// not have to refresh again.
type savingSource struct {
	mu   sync.Mutex
	src  oauth2.TokenSource
	path string
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := SaveToken(s.path, tok); err != nil {
			slog.Warn("persist refreshed token", "err", err)
		} else {
			s.last = tok.AccessToken
		}
	}
	return tok, nil
}
