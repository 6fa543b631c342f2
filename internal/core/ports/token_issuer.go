package ports

import "github.com/fleetgate/reservation-api/internal/core/domain"

// TokenIssuer mints signed session tokens for freshly authenticated
// accounts. Implemented by the JWT manager in infrastructure/token.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
}
