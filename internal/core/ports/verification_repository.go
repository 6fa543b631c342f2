package ports

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// VerificationRepository persists verification codes. Rows are append-only:
// codes are retired by flipping Used, never by deletion.
type VerificationRepository interface {
	Insert(ctx context.Context, code *domain.VerificationCode) error
	// FindLatestUnused returns the most recently issued unused code for
	// (email, purpose), or domain.ErrCodeInvalid when none exists.
	FindLatestUnused(ctx context.Context, email string, purpose domain.CodePurpose) (*domain.VerificationCode, error)
	// SupersedeUnused marks every unused code for (email, purpose) as used.
	SupersedeUnused(ctx context.Context, email string, purpose domain.CodePurpose) error
	MarkUsed(ctx context.Context, id string) error
}
