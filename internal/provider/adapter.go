// Package provider defines the adapter contract every usage source implements
// and the fan-out used to query them all at once.
package provider

import (
	"context"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/usage"
)

// Credential keys as they appear in the credential file.
const (
	KeyCodex       = "openai"
	KeyClaude      = "anthropic"
	KeyCopilot     = "github-copilot"
	KeyZai         = "zai-coding-plan"
	KeyAntigravity = "antigravity"
)

// Adapter fetches usage from one provider. Fetch never fails: errors are
// reported through ProviderUsage.Error and ProviderUsage.ErrorCode.
type Adapter interface {
	Key() string
	Name() string
	Fetch(ctx context.Context, creds auth.Store) usage.ProviderUsage
}
