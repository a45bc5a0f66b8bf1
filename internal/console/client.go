package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

const defaultTimeout = 15 * time.Second

const (
	msgConnectivity   = "cannot reach the server, check your connection"
	msgSessionExpired = "your session has expired, please log in again"
	msgForbidden      = "insufficient permission"
	msgServerError    = "server error, please try again later"
)

// loginExemptPaths bypass the session-expiry handling: a 401 from these is a
// failed login attempt, not an expired session.
var loginExemptPaths = map[string]struct{}{
	"/api/auth/login":      {},
	"/api/auth/verify-otp": {},
}

// Notifier surfaces a user-visible message. The UI layer supplies the
// implementation.
type Notifier interface {
	Notify(message string)
}

// Navigator performs a navigation to the given path.
type Navigator interface {
	NavigateTo(path string)
}

// Envelope is the API's canonical response shape.
type Envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// PageInfo carries pagination totals in list responses.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PagedData is the data payload of paginated responses.
type PagedData struct {
	PageInfo   PageInfo        `json:"pageInfo"`
	SearchInfo json.RawMessage `json:"searchInfo"`
	PageData   json.RawMessage `json:"pageData"`
}

// APIError is the normalized failure returned to callers. Status is zero for
// transport-level failures where no response was received.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is the console's HTTP pipeline: it attaches the bearer token from
// the session store to every request and classifies failures on the way
// back, notifying the user and, on session expiry, clearing the session and
// navigating to the stored role's login path.
type Client struct {
	baseURL   string
	http      *http.Client
	store     Store
	notifier  Notifier
	navigator Navigator
}

func NewClient(baseURL string, store Store, notifier Notifier, navigator Navigator) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		store:     store,
		notifier:  notifier,
		navigator: navigator,
	}
}

// Get issues a GET request and decodes the response envelope.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body and decodes the response
// envelope.
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Do performs the request. The returned error is always nil or *APIError;
// the envelope is non-nil only on success.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("build request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session, ok := c.store.Session(); ok && session.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.notifier.Notify(msgConnectivity)
		return nil, &APIError{Message: msgConnectivity}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	env := &Envelope{}
	// A non-JSON body leaves the envelope zero-valued; classification below
	// only needs the message field.
	_ = json.Unmarshal(raw, env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return env, nil
	}
	return nil, c.classify(resp.StatusCode, req.URL, env)
}

// classify maps a failure status to its notification and side effects, and
// builds the error the caller receives. Only the 401-outside-login branch
// mutates state: it clears the session and navigates to the stored role's
// login path. That branch is terminal; the failing request is never retried.
func (c *Client) classify(status int, reqURL *url.URL, env *Envelope) *APIError {
	switch {
	case status == http.StatusUnauthorized && isLoginExempt(reqURL.Path):
		if env.Message != "" {
			c.notifier.Notify(env.Message)
		}
		return &APIError{Status: status, Message: env.Message}

	case status == http.StatusUnauthorized:
		c.notifier.Notify(msgSessionExpired)
		target := "/"
		if role, ok := c.store.Role(); ok {
			target = domain.LoginPath(role)
		}
		_ = c.store.Clear()
		c.navigator.NavigateTo(target)
		return &APIError{Status: status, Message: msgSessionExpired}

	case status == http.StatusForbidden:
		c.notifier.Notify(msgForbidden)
		return &APIError{Status: status, Message: msgForbidden}

	case status == http.StatusInternalServerError:
		c.notifier.Notify(msgServerError)
		return &APIError{Status: status, Message: msgServerError}

	default:
		if env.Message != "" {
			c.notifier.Notify(env.Message)
		}
		return &APIError{Status: status, Message: env.Message}
	}
}

func isLoginExempt(path string) bool {
	_, ok := loginExemptPaths[path]
	return ok
}

// Page decodes the paginated variant of the envelope's data field.
func (e *Envelope) Page() (*PagedData, error) {
	var page PagedData
	if err := json.Unmarshal(e.Data, &page); err != nil {
		return nil, fmt.Errorf("decode page data: %w", err)
	}
	return &page, nil
}

// Decode unmarshals the envelope's data field into out.
func (e *Envelope) Decode(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(e.Data, out)
}
