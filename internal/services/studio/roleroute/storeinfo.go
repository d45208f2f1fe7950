package roleroute

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

// StoreRoleInfo builds the current-user document from local storage.
type StoreRoleInfo struct {
	Users storage.UserStore
}

// CurrentUser returns the signed-in user with roles. A user with no stored
// record yet has no roles.
func (s StoreRoleInfo) CurrentUser(ctx context.Context) (identity.Me, error) {
	principal, err := identity.Require(ctx)
	if err != nil {
		return identity.Me{}, err
	}
	if s.Users == nil {
		return identity.Me{}, apperrors.New(apperrors.CodeUnknown, "user store is not configured")
	}
	me := identity.Me{
		ID:    principal.UserID,
		Name:  principal.Name,
		Email: principal.Email,
		Roles: []identity.RoleGrant{},
	}
	user, err := s.Users.GetUser(ctx, principal.UserID)
	switch {
	case err == nil:
		me.TenantID = user.TenantID
		me.OnboardingPath = user.OnboardingPath
		if me.Name == "" {
			me.Name = user.DisplayName
		}
		if me.Email == "" {
			me.Email = user.Email
		}
	case errors.Is(err, storage.ErrNotFound):
		return me, nil
	default:
		return identity.Me{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "load user", err)
	}
	roles, err := s.Users.ListUserRoles(ctx, principal.UserID)
	if err != nil {
		return identity.Me{}, apperrors.Wrap(apperrors.CodePersistenceFailure, "load roles", err)
	}
	for _, role := range roles {
		me.Roles = append(me.Roles, identity.RoleGrant{Role: identity.RoleRef{Name: role}})
	}
	return me, nil
}
