package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a client-generated id on every outbound request so
// provider-side logs can be correlated with ours.
const RequestIDHeader = "X-Client-Request-Id"

// maxErrorBodySize caps how much of a non-2xx response body is read.
const maxErrorBodySize int64 = 64 * 1024

// StatusError is returned for any non-2xx HTTP response. It implements
// aierr.StatusCoder so adapters can classify it.
type StatusError struct {
	Code       int
	Body       string
	Detail     string        // Human-readable excerpt of Body.
	RetryAfter time.Duration // Parsed Retry-After header; informational only.
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("unexpected status %d", e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

// HTTPStatus returns the response status code.
func (e *StatusError) HTTPStatus() int { return e.Code }

// ParseRetryAfter parses the Retry-After header value as either seconds (integer)
// or an HTTP-date (RFC 7231). Returns zero if unparseable or if the date is in the past.
func ParseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		d := time.Until(t)
		if d > 0 {
			return d
		}
		return 0
	}
	return 0
}

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared transport state for provider implementations.
// Embed it in concrete adapters to get HTTP helpers, auth, custom headers,
// rate limit header tracking and the default service stubs.
type ModelAdapter struct {
	Auth         Auth                  // Authentication settings.
	BaseURL      string                // API base URL (no trailing slash).
	Client       *http.Client          // HTTP client; falls back to a cached default.
	Headers      map[string]string     // Extra headers applied to every request.
	HeaderParser RateLimitHeaderParser // Optional parser for rate limit response headers.
	Logger       *slog.Logger          // Optional; nil discards.

	rateLimitInfo atomic.Pointer[RateLimitInfo]
	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to a default client at call time.
func New(baseURL string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:    auth,
		BaseURL: baseURL,
		Client:  client,
	}
}

// Log returns the configured logger or one that discards everything.
func (a *ModelAdapter) Log() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.DiscardHandler)

// LastRateLimitInfo returns the most recently observed rate limit info, or nil.
func (a *ModelAdapter) LastRateLimitInfo() *RateLimitInfo { return a.rateLimitInfo.Load() }

// httpClient returns the configured client or a cached default client with a 10-minute timeout.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})
	return a.defaultClient
}

// NewRequest builds an *http.Request with the base URL, auth, request id and
// custom headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := a.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}
			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	req.Header.Set(RequestIDHeader, uuid.NewString())

	// Apply custom headers.
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends the request using the configured HTTP client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	a.Log().DebugContext(req.Context(), "http request",
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get(RequestIDHeader),
	)
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON marshals payload as JSON, sends a POST to the given path,
// checks for a 2xx status, and unmarshals the response body into dest.
// If dest is nil the response body is discarded after the status check.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return a.doJSON(req, dest)
}

// GetJSON sends a GET to the given path and decodes a 2xx body into dest.
func (a *ModelAdapter) GetJSON(ctx context.Context, path string, dest any) error {
	req, err := a.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return a.doJSON(req, dest)
}

func (a *ModelAdapter) doJSON(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp)
	}

	a.observeHeaders(resp)

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// PostStream marshals payload, POSTs it asking for an event stream and returns
// the response with its body still open. The caller owns the body. Non-2xx
// responses are drained, closed and returned as *StatusError.
func (a *ModelAdapter) PostStream(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := a.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do stream request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, newStatusError(resp)
	}

	a.observeHeaders(resp)

	return resp, nil
}

func (a *ModelAdapter) observeHeaders(resp *http.Response) {
	if a.HeaderParser == nil {
		return
	}
	if info := a.HeaderParser(resp.Header, time.Now()); info != nil {
		a.rateLimitInfo.Store(info)
	}
}

func newStatusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	return &StatusError{
		Code:       resp.StatusCode,
		Body:       string(raw),
		Detail:     DescribeBody(resp.Header.Get("Content-Type"), raw),
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
	}
}
