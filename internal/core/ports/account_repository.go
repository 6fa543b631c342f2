package ports

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// AccountRepository defines persistence for accounts. Implementations must
// enforce email uniqueness at the storage layer (unique index on the
// lower-cased email), not just by a prior lookup.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	ListByRole(ctx context.Context, role string) ([]*domain.Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	DeleteByEmail(ctx context.Context, email string) error
}
