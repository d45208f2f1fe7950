// Package roleroute decides where a signed-in user lands after
// authentication.
package roleroute

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/louisbranch/printstudio/internal/services/studio/identity"
)

// Destinations.
const (
	PathOnboarding  = "/onboarding"
	PathTenantAdmin = "/dashboard/tenant-admin"
	PathSeller      = "/dashboard/seller"
	PathCreator     = "/dashboard/creator"
	PathCustomer    = "/dashboard/customer"
)

// DefaultRole applies when the user has no roles.
const DefaultRole = "CUSTOMER"

var destinations = map[string]string{
	"ADMIN":        PathTenantAdmin,
	"TENANT_ADMIN": PathTenantAdmin,
	"SELLER":       PathSeller,
	"CREATOR":      PathCreator,
	"CUSTOMER":     PathCustomer,
}

// RoleInfo returns the current user with their roles.
type RoleInfo interface {
	CurrentUser(ctx context.Context) (identity.Me, error)
}

// Router maps roles to dashboards.
type Router struct {
	info   RoleInfo
	logger zerolog.Logger
}

// New returns a router backed by info.
func New(info RoleInfo, logger zerolog.Logger) *Router {
	return &Router{info: info, logger: logger}
}

// DestinationFor maps a role name to its path. Customers and unknown roles
// go to onboarding.
func DestinationFor(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		role = DefaultRole
	}
	path, ok := destinations[role]
	if !ok || role == DefaultRole {
		return PathOnboarding
	}
	return path
}

// DashboardFor returns the nominal dashboard of role, ignoring the
// onboarding override.
func DashboardFor(role string) (string, bool) {
	path, ok := destinations[strings.ToUpper(strings.TrimSpace(role))]
	return path, ok
}

// DetermineDestination fetches the current user once and picks a path.
// Any failure sends the user to onboarding.
func (r *Router) DetermineDestination(ctx context.Context) string {
	if r == nil || r.info == nil {
		return PathOnboarding
	}
	me, err := r.info.CurrentUser(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("role lookup failed; routing to onboarding")
		return PathOnboarding
	}
	return DestinationFor(me.PrimaryRole())
}
