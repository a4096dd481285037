package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production task-service root.
	DefaultBaseURL = "https://graph.microsoft.com/v1.0/me/todo"

	// APITimeout is the timeout for each service call.
	APITimeout = 5 * time.Second
)

// Client implements Gateway over the service's REST API. The HTTP client
// is expected to attach credentials itself (see internal/auth).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient wraps an authenticated HTTP client. An empty baseURL selects
// the production service root.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchAll follows the collection's continuation links until exhausted
// and returns the concatenated entities in service order.
func (c *Client) FetchAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var all []json.RawMessage
	next := c.baseURL + path
	for next != "" {
		body, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		items, nextLink, err := decodePage(body)
		if err != nil {
			return nil, fmt.Errorf("decode response for %s: %w", path, err)
		}
		all = append(all, items...)
		next = c.resolveLink(nextLink)
	}
	return all, nil
}

// Patch issues a partial update containing exactly the given fields and
// returns the updated entity.
func (c *Client) Patch(ctx context.Context, path string, fields map[string]any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodPatch, c.baseURL+path, fields)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Create posts a new entity to a collection path and returns it as the
// service stored it.
func (c *Client) Create(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Delete removes the entity at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.do(ctx, http.MethodDelete, c.baseURL+path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("service request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, data)
	}
	return data, nil
}

// resolveLink normalizes a continuation link. The service hands back
// absolute URLs; relative links are joined to the base.
func (c *Client) resolveLink(link string) string {
	if link == "" || strings.Contains(link, "://") {
		return link
	}
	return c.baseURL + "/" + strings.TrimLeft(link, "/")
}

// decodePage interprets a response body as a collection envelope, a bare
// array, or a single entity.
func decodePage(body []byte) ([]json.RawMessage, string, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		err := json.Unmarshal(body, &items)
		return items, "", err
	}

	var env struct {
		Value    []json.RawMessage `json:"value"`
		NextLink string            `json:"@odata.nextLink"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "", err
	}
	if env.Value == nil && env.NextLink == "" {
		// Not a collection: a single entity is a one-element result.
		return []json.RawMessage{json.RawMessage(body)}, "", nil
	}
	return env.Value, env.NextLink, nil
}

// statusError decodes the service's error envelope into an HTTPError,
// tolerating non-JSON bodies.
func statusError(status int, body []byte) error {
	he := &HTTPError{Status: status}
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		he.Code = env.Error.Code
		he.Message = env.Error.Message
	}
	return he
}
