// Package auth loads the provider credential file shared with opencode.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Credential types found in the credential file.
const (
	TypeOAuth = "oauth"
	TypeAPI   = "api"
)

var (
	// ErrNotFound indicates no credential file exists at any probed path.
	ErrNotFound = errors.New("auth: credential file not found")
	// ErrMissing indicates the file has no entry for a provider key.
	ErrMissing = errors.New("auth: no credentials for provider")
)

// Credential is one entry of the credential file. OAuth records use
// Refresh/Access/Expires; API records use Key.
type Credential struct {
	Type      string `json:"type"`
	Refresh   string `json:"refresh,omitempty"`
	Access    string `json:"access,omitempty"`
	Expires   int64  `json:"expires,omitempty"` // unix ms
	AccountID string `json:"accountId,omitempty"`
	Key       string `json:"key,omitempty"`
}

// IsOAuth reports whether the credential is an OAuth token record.
func (c Credential) IsOAuth() bool { return c.Type == TypeOAuth }

// IsAPI reports whether the credential is an API-key record.
func (c Credential) IsAPI() bool { return c.Type == TypeAPI }

// Expired reports whether the access token is missing or past its expiry.
// A zero Expires is treated as non-expiring.
func (c Credential) Expired(now time.Time) bool {
	if strings.TrimSpace(c.Access) == "" {
		return true
	}
	if c.Expires <= 0 {
		return false
	}
	return now.UnixMilli() >= c.Expires
}

// Store maps provider keys to credentials. It is read-only after Load and is
// shared by value across adapters.
type Store map[string]Credential

// Get returns the credential for key.
func (s Store) Get(key string) (Credential, error) {
	c, ok := s[key]
	if !ok {
		return Credential{}, fmt.Errorf("%w %q", ErrMissing, key)
	}
	return c, nil
}

// Has reports whether a usable credential exists for key.
func (s Store) Has(key string) bool {
	c, ok := s[key]
	if !ok {
		return false
	}
	switch c.Type {
	case TypeAPI:
		return strings.TrimSpace(c.Key) != ""
	case TypeOAuth:
		return strings.TrimSpace(c.Access) != "" || strings.TrimSpace(c.Refresh) != ""
	default:
		return false
	}
}

// Load reads and decodes the credential file at path.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user or known defaults
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if store == nil {
		store = Store{}
	}
	return store, nil
}

// Candidates returns the credential file paths probed, in order.
func Candidates() []string {
	var out []string
	if p := os.Getenv("QBURN_AUTH_FILE"); p != "" {
		out = append(out, p)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, "opencode", "auth.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(home, ".local", "share", "opencode", "auth.json"))
	}
	return out
}

// DefaultPath returns the first existing candidate path.
func DefaultPath() (string, error) {
	candidates := Candidates()
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (looked in %s)", ErrNotFound, strings.Join(candidates, ", "))
}
