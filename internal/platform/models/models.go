package models

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User mirrors a principal at the external identity provider. Rows are
// created and updated exclusively by provider webhook events; there is no
// local signup path and no deletion path.
type User struct {
	ID              string `json:"id"`
	TokenIdentifier string `json:"token_identifier"`
	// PersonalOrgID is the principal's own namespace: an implicit
	// organization of one where the user always has admin rights.
	PersonalOrgID string `json:"personal_org_id"`
	Name          string `json:"name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`

	Memberships []OrgMembership `json:"memberships,omitempty"`
}

type OrgMembership struct {
	UserID    string `json:"user_id"`
	OrgID     string `json:"org_id"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// MemberOf reports whether the user belongs to the given organization,
// counting the personal namespace.
func (u *User) MemberOf(orgID string) bool {
	if orgID == u.PersonalOrgID {
		return true
	}
	for _, m := range u.Memberships {
		if m.OrgID == orgID {
			return true
		}
	}
	return false
}

// RoleIn returns the user's role in the organization. The personal
// namespace always carries admin.
func (u *User) RoleIn(orgID string) (string, bool) {
	if orgID == u.PersonalOrgID {
		return RoleAdmin, true
	}
	for _, m := range u.Memberships {
		if m.OrgID == orgID {
			return m.Role, true
		}
	}
	return "", false
}
