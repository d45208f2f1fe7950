package roleroute

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

type fakeUsers struct {
	storage.UserStore
	user     storage.User
	userErr  error
	roles    []string
	rolesErr error
}

func (f fakeUsers) GetUser(context.Context, string) (storage.User, error) {
	return f.user, f.userErr
}

func (f fakeUsers) ListUserRoles(context.Context, string) ([]string, error) {
	return f.roles, f.rolesErr
}

func signedIn() context.Context {
	return identity.WithPrincipal(context.Background(), identity.Principal{UserID: "user-1"}, "tok")
}

func TestStoreRoleInfoCurrentUser(t *testing.T) {
	t.Parallel()

	info := StoreRoleInfo{Users: fakeUsers{
		user:  storage.User{ID: "user-1", TenantID: "tenant-1", DisplayName: "Ada", OnboardingPath: "ARTIST"},
		roles: []string{"CREATOR", "CUSTOMER"},
	}}
	me, err := info.CurrentUser(signedIn())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	want := identity.Me{
		ID:             "user-1",
		Name:           "Ada",
		TenantID:       "tenant-1",
		OnboardingPath: "ARTIST",
		Roles: []identity.RoleGrant{
			{Role: identity.RoleRef{Name: "CREATOR"}},
			{Role: identity.RoleRef{Name: "CUSTOMER"}},
		},
	}
	if diff := cmp.Diff(want, me); diff != "" {
		t.Fatalf("me mismatch (-want +got):\n%s", diff)
	}
	if got := New(info, zerolog.Nop()).DetermineDestination(signedIn()); got != PathCreator {
		t.Fatalf("destination = %q", got)
	}
}

func TestStoreRoleInfoUnknownUserHasNoRoles(t *testing.T) {
	t.Parallel()

	info := StoreRoleInfo{Users: fakeUsers{userErr: storage.ErrNotFound}}
	me, err := info.CurrentUser(signedIn())
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if len(me.Roles) != 0 || me.ID != "user-1" {
		t.Fatalf("me = %#v", me)
	}
}

func TestStoreRoleInfoErrors(t *testing.T) {
	t.Parallel()

	if _, err := (StoreRoleInfo{Users: fakeUsers{}}).CurrentUser(context.Background()); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("anonymous code = %q", apperrors.CodeOf(err))
	}
	_, err := (StoreRoleInfo{Users: fakeUsers{userErr: errors.New("locked")}}).CurrentUser(signedIn())
	if apperrors.CodeOf(err) != apperrors.CodePersistenceFailure {
		t.Fatalf("user error code = %q", apperrors.CodeOf(err))
	}
	_, err = (StoreRoleInfo{Users: fakeUsers{rolesErr: errors.New("locked")}}).CurrentUser(signedIn())
	if apperrors.CodeOf(err) != apperrors.CodePersistenceFailure {
		t.Fatalf("roles error code = %q", apperrors.CodeOf(err))
	}
}
