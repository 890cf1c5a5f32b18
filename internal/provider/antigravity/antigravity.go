// Package antigravity reads per-model quotas from the locally running
// Antigravity language server.
package antigravity

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/qburn/internal/auth"
	"github.com/theirongolddev/qburn/internal/logger"
	"github.com/theirongolddev/qburn/internal/provider"
	"github.com/theirongolddev/qburn/internal/usage"
)

const statusPath = "/exa.language_server_pb.LanguageServerService/GetUserStatus"

// Adapter discovers the language server and asks it for user status.
type Adapter struct {
	http   *http.Client
	run    runner
	scheme string
	host   string
}

// New creates an Antigravity adapter. The language server uses a
// self-signed loopback certificate, so verification is skipped.
func New(timeout time.Duration) *Adapter {
	client := provider.NewHTTPClient(timeout)
	client.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // loopback only
	}
	return &Adapter{
		http:   client,
		run:    execRunner,
		scheme: "https",
		host:   "127.0.0.1",
	}
}

func (a *Adapter) Key() string  { return provider.KeyAntigravity }
func (a *Adapter) Name() string { return "Antigravity" }

type statusRequest struct {
	Metadata map[string]string `json:"metadata"`
}

type statusResponse struct {
	UserStatus *userStatus `json:"userStatus"`
}

type userStatus struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PlanStatus *struct {
		PlanInfo *struct {
			PlanName string `json:"planName"`
		} `json:"planInfo"`
	} `json:"planStatus"`
	CascadeModelConfigData *struct {
		ClientModelConfigs []modelConfig `json:"clientModelConfigs"`
	} `json:"cascadeModelConfigData"`
}

type modelConfig struct {
	Label     string `json:"label"`
	QuotaInfo *struct {
		RemainingFraction *float64 `json:"remainingFraction"`
		ResetTime         string   `json:"resetTime"`
	} `json:"quotaInfo"`
}

// Fetch implements provider.Adapter. Credentials are not used: the local
// server authenticates with the CSRF token from its command line.
func (a *Adapter) Fetch(ctx context.Context, _ auth.Store) usage.ProviderUsage {
	log := logger.FromContext(ctx).With(zap.String("provider", a.Key()))

	proc, err := findProcess(ctx, a.run)
	if err != nil {
		return provider.Fail(a, err)
	}
	ports, err := listeningPorts(ctx, a.run, proc)
	if err != nil {
		return provider.Fail(a, err)
	}
	if len(ports) == 0 {
		return provider.Fail(a, fmt.Errorf("%w: no listening ports for pid %d", provider.ErrNotFound, proc.PID))
	}
	log.Debug("language server found", zap.Int("pid", proc.PID), zap.Ints("ports", ports))

	var lastErr error
	for _, port := range ports {
		status, err := a.userStatus(ctx, port, proc.CSRFToken)
		if err != nil {
			log.Debug("port probe failed", zap.Int("port", port), zap.Error(err))
			lastErr = err
			continue
		}
		return a.toUsage(status)
	}
	return provider.Fail(a, fmt.Errorf("antigravity: %w", lastErr))
}

func (a *Adapter) userStatus(ctx context.Context, port int, csrf string) (*userStatus, error) {
	url := fmt.Sprintf("%s://%s:%d%s", a.scheme, a.host, port, statusPath)
	req := statusRequest{Metadata: map[string]string{
		"ideName":       "antigravity",
		"extensionName": "antigravity",
		"locale":        "en",
	}}
	var resp statusResponse
	err := provider.PostJSON(ctx, a.http, url, map[string]string{
		"X-Codeium-Csrf-Token":     csrf,
		"Connect-Protocol-Version": "1",
	}, req, &resp)
	if err != nil {
		return nil, err
	}
	if resp.UserStatus == nil {
		return nil, errors.New("response missing userStatus")
	}
	return resp.UserStatus, nil
}

func (a *Adapter) toUsage(s *userStatus) usage.ProviderUsage {
	out := usage.ProviderUsage{Provider: a.Name(), Key: a.Key()}
	if s.PlanStatus != nil && s.PlanStatus.PlanInfo != nil {
		out.Plan = s.PlanStatus.PlanInfo.PlanName
	}
	if s.Email != "" {
		out.AdditionalInfo = s.Email
	}

	if s.CascadeModelConfigData != nil {
		for _, m := range s.CascadeModelConfigData.ClientModelConfigs {
			if m.QuotaInfo == nil || m.QuotaInfo.RemainingFraction == nil {
				continue
			}
			util := (1 - *m.QuotaInfo.RemainingFraction) * 100
			label := strings.TrimSpace(m.Label)
			if label == "" {
				label = "unknown model"
			}
			out.SubRows = append(out.SubRows, usage.SubRow{
				Label:  label,
				Window: usage.PercentWindow(util, usage.ParseISO8601(m.QuotaInfo.ResetTime), usage.CycleNone),
			})
		}
	}
	sort.SliceStable(out.SubRows, func(i, j int) bool { return out.SubRows[i].Label < out.SubRows[j].Label })

	windows := make([]*usage.UsageWindow, 0, len(out.SubRows))
	for _, r := range out.SubRows {
		windows = append(windows, r.Window)
	}
	out.PrimaryWindow = usage.RangeWindow(windows)
	if out.PrimaryWindow == nil {
		return provider.Fail(a, errors.New("antigravity: no model quotas reported"))
	}
	return out
}
