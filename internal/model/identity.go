package model

// Role is the privilege level carried by a caller identity.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks whether the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}

// Identity describes the authenticated caller of an operation. It is supplied
// by the upstream identity provider and passed explicitly into every call;
// the core never reads authentication state from ambient context.
type Identity struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Role       Role    `json:"role"`
	CompanyIDs []int64 `json:"company_ids,omitempty"`
}

// MemberOf reports whether the identity belongs to the given company.
func (id Identity) MemberOf(companyID int64) bool {
	for _, c := range id.CompanyIDs {
		if c == companyID {
			return true
		}
	}
	return false
}

// IsSuperuser reports whether the identity holds the global superuser role.
func (id Identity) IsSuperuser() bool {
	return id.Role == RoleSuperuser
}

// IsAdmin reports whether the identity holds an administrative capability
// (admin or superuser).
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin || id.Role == RoleSuperuser
}
