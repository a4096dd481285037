package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"

	"todotree/internal/config"
)

const (
	// callbackTimeout bounds how long login waits for the browser
	// redirect.
	callbackTimeout = 5 * time.Minute

	// exchangeTimeout bounds the code-for-token exchange.
	exchangeTimeout = 30 * time.Second

	// callbackStartPort is the first local port tried for the redirect
	// listener.
	callbackStartPort = 8475

	// callbackPortAttempts is how many consecutive ports are tried.
	callbackPortAttempts = 5
)

// ErrLoginTimeout indicates the browser redirect never arrived.
var ErrLoginTimeout = errors.New("authorization timed out")

// Login runs the interactive authorization-code flow with PKCE: bind a
// localhost callback, hand the user the authorization URL on prompt,
// wait for the redirect, exchange the code and persist the token.
func Login(ctx context.Context, cfg *config.Config, prompt io.Writer) error {
	cc, err := LoadClientConfig(cfg.OAuthClientPath())
	if err != nil {
		return err
	}

	port, listener, err := listenCallback()
	if err != nil {
		return fmt.Errorf("bind local port for login callback: %w", err)
	}
	defer listener.Close()

	oc := OAuth2Config(cc)
	oc.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := ulid.Make().String()
	authURL := oc.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintln(prompt, "Open this URL in your browser:")
	fmt.Fprintln(prompt, authURL)

	code, err := waitForCode(ctx, listener, state)
	if err != nil {
		return err
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	tok, err := oc.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := SaveToken(cfg.TokenPath(), tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// SessionValid reports whether the stored session can still produce an
// access token, refreshing it if necessary.
func SessionValid(ctx context.Context, cfg *config.Config) bool {
	cc, err := LoadClientConfig(cfg.OAuthClientPath())
	if err != nil {
		return false
	}
	tok, err := LoadToken(cfg.TokenPath())
	if err != nil || tok.RefreshToken == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	_, err = OAuth2Config(cc).TokenSource(ctx, tok).Token()
	return err == nil
}

// listenCallback binds the first free port in the callback range.
func listenCallback() (int, net.Listener, error) {
	for i := 0; i < callbackPortAttempts; i++ {
		port := callbackStartPort + i
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return port, listener, nil
		}
	}
	return 0, nil, fmt.Errorf("ports %d-%d all in use", callbackStartPort, callbackStartPort+callbackPortAttempts-1)
}

// waitForCode serves the redirect endpoint until a code arrives, the
// context is cancelled or the timeout passes.
func waitForCode(ctx context.Context, listener net.Listener, state string) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errCh <- errors.New("authorization state mismatch")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "no code in callback", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", q.Get("error"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Login complete</h1><p>You may close this window.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(callbackTimeout):
		return "", ErrLoginTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
