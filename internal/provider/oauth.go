package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/qburn/internal/auth"
)

// Token is the result of an OAuth refresh.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshRequest describes one provider's refresh-token grant.
type RefreshRequest struct {
	TokenURL string
	ClientID string
	Scope    string
}

// AccessToken returns a usable access token for an OAuth credential,
// refreshing it in memory when expired. Refreshed tokens are not written
// back to the credential file.
func AccessToken(ctx context.Context, client *http.Client, cred auth.Credential, rr RefreshRequest, now time.Time) (string, error) {
	if !cred.IsOAuth() {
		return "", fmt.Errorf("%w: expected oauth credential, got %q", ErrNoCredentials, cred.Type)
	}
	if !cred.Expired(now) {
		return cred.Access, nil
	}
	if strings.TrimSpace(cred.Refresh) == "" {
		return "", fmt.Errorf("%w: access token expired and no refresh token", ErrRefreshFailed)
	}

	body := map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": cred.Refresh,
		"client_id":     rr.ClientID,
	}
	if rr.Scope != "" {
		body["scope"] = rr.Scope
	}

	var tok Token
	if err := PostJSON(ctx, client, rr.TokenURL, nil, body, &tok); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return "", fmt.Errorf("%w: response missing access_token", ErrRefreshFailed)
	}
	return tok.AccessToken, nil
}
