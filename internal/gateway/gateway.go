// Package gateway provides the remote task-service capability: fetch a
// resource path to completion and issue targeted partial updates. Paths
// are constructed by callers; the gateway treats them as opaque.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Gateway is the service capability consumed by the tree and mutation
// layers. FetchAll resolves pagination internally and returns the
// complete collection in service order; a single-entity path yields
// exactly one element.
type Gateway interface {
	FetchAll(ctx context.Context, path string) ([]json.RawMessage, error)
	Patch(ctx context.Context, path string, fields map[string]any) (json.RawMessage, error)
	Create(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) error
}

// HTTPError is a non-2xx response from the service, carrying the decoded
// error envelope when one was present.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "token expired or revoked (run: todotree login)"
	case http.StatusNotFound:
		return "not found"
	}
	if e.Message != "" {
		return fmt.Sprintf("service error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("service error %d", e.Status)
}

// Unauthenticated reports whether the response means the session is
// missing or no longer valid.
func (e *HTTPError) Unauthenticated() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsUnauthenticated reports whether err is an unauthenticated service
// response.
func IsUnauthenticated(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Unauthenticated()
}

// IsNotFound reports whether err is a missing-resource service response.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusNotFound
}

// wrapError maps transport failures to user-facing messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
