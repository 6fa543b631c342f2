package domain

import "time"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Account models an authenticated actor. TenantName is the company the
// account belongs to; it is the tenant isolation boundary for every
// scoped read and write. Admins created through the verified
// self-registration flow may have no tenant at all.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TenantName   string    `json:"tenant_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the account bypasses tenant scoping.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
