package domain

import "errors"

var (
	// ErrInvalidCredentials covers bad passwords and unknown identifiers
	// alike, so login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrCodeInvalid covers wrong, expired and consumed verification codes
	// without distinguishing which, to reduce guessability.
	ErrCodeInvalid = errors.New("verification code invalid or expired")

	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAccountNotFound = errors.New("account not found")
	ErrUntrustedDomain = errors.New("email domain not allowed for admin registration")
	ErrTenantMissing   = errors.New("account has no tenant")
	ErrForbidden       = errors.New("access forbidden")
	ErrUnauthorized    = errors.New("unauthorized")

	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrDriverNotFound       = errors.New("driver not found")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidReservation is returned when a reservation references a
	// vehicle or driver that does not exist in the caller's tenant.
	ErrInvalidReservation = errors.New("vehicle or driver not found")

	// ErrDecisionLinkInvalid covers unknown, already-consumed and expired
	// decision links, and links to already-decided reservations.
	ErrDecisionLinkInvalid = errors.New("invalid or expired decision link")
)
