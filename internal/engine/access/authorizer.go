package access

import (
	"filedrive/internal/pkg/errors"
	"filedrive/internal/platform/models"
	"filedrive/internal/platform/repositories"
)

// Authorizer makes pure, read-only authorization decisions against the
// current snapshot of user records. The principal is always passed in
// explicitly as a token identifier; nothing is read from ambient state.
type Authorizer struct {
	users *repositories.UserRepository
}

func NewAuthorizer(users *repositories.UserRepository) *Authorizer {
	return &Authorizer{users: users}
}

// AuthorizeOrg resolves the principal to a local user and checks
// organization access. A principal is authorized when the org is one of
// its memberships, or when the org is the principal's own personal
// namespace (an organization of one keyed by the user's identity).
func (a *Authorizer) AuthorizeOrg(tokenIdentifier, orgID string) (*models.User, error) {
	if tokenIdentifier == "" {
		return nil, errors.ErrUnauthenticated
	}

	user, err := a.users.GetByTokenIdentifier(tokenIdentifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Principal authenticated upstream but has no local record yet
		// (webhook sync lag). Fail closed.
		return nil, errors.ErrUnauthorized
	}

	if !user.MemberOf(orgID) {
		return nil, errors.ErrUnauthorized
	}

	return user, nil
}

// RequireAdmin gates admin-only operations (soft delete, restore). A user
// can hold general access to an org and still be denied here.
func (a *Authorizer) RequireAdmin(user *models.User, orgID string) error {
	role, ok := user.RoleIn(orgID)
	if !ok || role != models.RoleAdmin {
		return errors.ErrForbidden
	}
	return nil
}
