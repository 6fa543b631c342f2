package ports

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// Caller is the identity the auth middleware resolves for a request.
type Caller struct {
	AccountID  string
	Username   string
	Role       string
	TenantName string
}

// IsAdmin reports whether the caller bypasses tenant scoping.
func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// Tenant returns the tenant filter to apply for this caller: empty (no
// filter) for admins, the caller's own tenant otherwise.
func (c Caller) Tenant() string {
	if c.IsAdmin() {
		return ""
	}
	return c.TenantName
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	TenantName string
}

type VerifyAdminInput struct {
	Email    string
	Username string
	Password string
	Code     string
}

// AuthService covers credential issuance, verification-code flows and
// account administration.
type AuthService interface {
	// Register creates a regular account; the role is derived from the
	// email domain (trusted suffix => admin).
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// RequestAdminCode emails a verification code that gates admin
	// self-registration. Only trusted-domain addresses may request one.
	RequestAdminCode(ctx context.Context, email string) error
	// VerifyAdmin validates the code, creates the admin account and logs
	// it in. The code is consumed only after the account exists.
	VerifyAdmin(ctx context.Context, in VerifyAdminInput) (string, *domain.Account, error)
	// Login authenticates by email or username and returns a signed
	// session token.
	Login(ctx context.Context, identifier, password string) (string, *domain.Account, error)
	// RequestPasswordReset emails a reset code. It reports success even
	// for unknown addresses to avoid account enumeration.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, email string) error
}
