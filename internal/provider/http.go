package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/usage"
)

const (
	// RequestTimeout bounds a single provider request.
	RequestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "qburn/1.0"
)

var (
	// ErrNoCredentials indicates the credential file has no usable entry.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrUnauthorized indicates the token or key was rejected.
	ErrUnauthorized = errors.New("unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the usage endpoint itself rate limited us.
	ErrRateLimited = errors.New("rate limited")
	// ErrNotFound indicates the endpoint or local service does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable indicates the upstream endpoint returned a server error.
	ErrUnavailable = errors.New("endpoint unavailable")
	// ErrRefreshFailed indicates an OAuth token refresh did not succeed.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// StatusError carries an unexpected HTTP status with a trimmed body.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// Unwrap maps the status onto the package sentinel errors.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 500:
		return ErrUnavailable
	}
	return nil
}

// NewHTTPClient returns a client with the per-request timeout applied.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON performs a GET and decodes the JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	return doJSON(ctx, client, http.MethodGet, url, headers, nil, out)
}

// PostJSON encodes body as JSON, POSTs it and decodes the response into out.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	return doJSON(ctx, client, http.MethodPost, url, headers, body, out)
}

func doJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Body: SummarizeBody(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// SummarizeBody trims a response body for inclusion in an error message.
func SummarizeBody(b []byte) string {
	s := strings.Join(strings.Fields(string(b)), " ")
	if len(s) > 180 {
		return s[:180] + "..."
	}
	return s
}

// CodeFor classifies an adapter error.
func CodeFor(err error) usage.ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCredentials), errors.Is(err, auth.ErrMissing):
		return usage.ErrNoCredentials
	case errors.Is(err, ErrRefreshFailed):
		return usage.ErrTokenRefreshFailed
	case errors.Is(err, ErrNotFound):
		return usage.ErrNotFound
	case errors.Is(err, ErrUnavailable):
		return usage.ErrEndpointUnavailable
	case errors.Is(err, syscall.ECONNREFUSED):
		return usage.ErrConnectionRefused
	default:
		return usage.ErrFetchFailed
	}
}

// Fail builds a failed result for an adapter, classifying err.
func Fail(a Adapter, err error) usage.ProviderUsage {
	return usage.Failure(a.Name(), a.Key(), CodeFor(err), err)
}
