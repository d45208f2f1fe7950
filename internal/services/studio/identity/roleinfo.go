package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/timeouts"
)

// RoleRef names a role.
type RoleRef struct {
	Name string `json:"name"`
}

// RoleGrant is one role assignment.
type RoleGrant struct {
	Role RoleRef `json:"role"`
}

// Me is the current-user document served at /api/auth/me.
type Me struct {
	ID             string      `json:"id"`
	Name           string      `json:"name,omitempty"`
	Email          string      `json:"email,omitempty"`
	TenantID       string      `json:"tenantId,omitempty"`
	OnboardingPath string      `json:"onboardingPath,omitempty"`
	Roles          []RoleGrant `json:"roles"`
}

// PrimaryRole returns the first listed role name, or "".
func (m Me) PrimaryRole() string {
	if len(m.Roles) == 0 {
		return ""
	}
	return strings.TrimSpace(m.Roles[0].Role.Name)
}

// HTTPRoleInfo fetches the current user from an auth service.
type HTTPRoleInfo struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPRoleInfo returns a client for baseURL.
func NewHTTPRoleInfo(baseURL string, client *http.Client) (*HTTPRoleInfo, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("role info base url %q is invalid", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRoleInfo{
		BaseURL: strings.TrimRight(parsed.String(), "/"),
		Client:  client,
		Timeout: timeouts.RoleInfo,
	}, nil
}

// CurrentUser calls GET <base>/api/auth/me with the caller's token.
func (c *HTTPRoleInfo) CurrentUser(ctx context.Context) (Me, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return Me{}, apperrors.New(apperrors.CodeUnauthorized, "session token is required")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/auth/me", nil)
	if err != nil {
		return Me{}, apperrors.Wrap(apperrors.CodeNetworkFailure, "build role info request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return Me{}, apperrors.Wrap(apperrors.CodeNetworkFailure, "fetch role info", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return Me{}, apperrors.New(apperrors.CodeUnauthorized, "role info rejected session")
	case resp.StatusCode != http.StatusOK:
		return Me{}, apperrors.WithMetadata(apperrors.CodeNetworkFailure, "role info returned an error", map[string]string{"status": resp.Status})
	}
	var me Me
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&me); err != nil {
		return Me{}, apperrors.Wrap(apperrors.CodeNetworkFailure, "decode role info", err)
	}
	return me, nil
}
