package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// AuthService implements registration, the verified admin-registration and
// password-reset flows, login, and account administration.
type AuthService struct {
	accounts      ports.AccountRepository
	codes         *CodeIssuer
	tokens        ports.TokenIssuer
	trustedDomain string
	log           zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	codes *CodeIssuer,
	tokens ports.TokenIssuer,
	trustedDomain string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		accounts:      accounts,
		codes:         codes,
		tokens:        tokens,
		trustedDomain: strings.ToLower(trustedDomain),
		log:           log,
	}
}

// normalizeEmail lower-cases the address so lookups and the unique index
// are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) trusted(email string) bool {
	return s.trustedDomain != "" && strings.HasSuffix(email, "@"+s.trustedDomain)
}

// Register creates a regular account. Addresses on the trusted corporate
// domain are granted the admin role directly; everyone else is a user.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	email := normalizeEmail(in.Email)

	role := domain.RoleUser
	if s.trusted(email) {
		role = domain.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hash),
		TenantName:   in.TenantName,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("email", created.Email).
		Str("role", created.Role).Str("tenant", created.TenantName).Msg("account registered")
	return created, nil
}

// RequestAdminCode starts verified admin self-registration: only trusted
// addresses qualify, and unlike plain registration the admin role is not
// granted until the emailed code is presented.
func (s *AuthService) RequestAdminCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if !s.trusted(email) {
		return domain.ErrUntrustedDomain
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	_, err := s.codes.Issue(ctx, email, domain.PurposeAdminRegistration)
	return err
}

// VerifyAdmin completes admin self-registration. The code is consumed only
// after the account has been created, so a failed creation leaves the code
// valid for a retry.
func (s *AuthService) VerifyAdmin(ctx context.Context, in ports.VerifyAdminInput) (string, *domain.Account, error) {
	email := normalizeEmail(in.Email)

	vc, err := s.codes.Validate(ctx, email, in.Code, domain.PurposeAdminRegistration, time.Now().UTC())
	if err != nil {
		return "", nil, err
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	account, err := s.accounts.Create(ctx, &domain.Account{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return "", nil, err
	}

	if err := s.codes.Consume(ctx, vc.ID); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to consume admin registration code")
	}

	signed, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", account.Username).Str("email", account.Email).Msg("admin account activated")
	return signed, account, nil
}

// Login authenticates by email (identifier contains '@') or username.
// Unknown identifiers and wrong passwords produce the same error so the
// response cannot be used to probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, *domain.Account, error) {
	var (
		account *domain.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.accounts.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		account, err = s.accounts.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, err
	}

	return signed, account, nil
}

// RequestPasswordReset issues a reset code for registered addresses. It
// reports success either way; the caller cannot tell whether the address
// exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	if _, err := s.accounts.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil
		}
		return err
	}

	_, err := s.codes.Issue(ctx, email, domain.PurposePasswordReset)
	return err
}

// ResetPassword sets a new password after validating the reset code. The
// code is consumed only after the password change has been persisted.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)

	vc, err := s.codes.Validate(ctx, email, code, domain.PurposePasswordReset, time.Now().UTC())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}

	if err := s.codes.Consume(ctx, vc.ID); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to consume password reset code")
	}

	s.log.Info().Str("email", email).Msg("password reset")
	return nil
}

func (s *AuthService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, accountID)
}

func (s *AuthService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *AuthService) DeleteAccount(ctx context.Context, email string) error {
	return s.accounts.DeleteByEmail(ctx, normalizeEmail(email))
}
