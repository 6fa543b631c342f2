package ports

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// ReservationRepository defines persistence for reservations. A non-empty
// tenantName on reads scopes the query to that tenant; empty means global.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, tenantName string) ([]*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository persists per-tenant notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, notification *domain.Notification) error
	// List returns the tenant's notifications, newest first.
	List(ctx context.Context, tenantName string) ([]*domain.Notification, error)
	// MarkRead flags one notification as read. A non-empty tenantName
	// restricts the update to that tenant's rows.
	MarkRead(ctx context.Context, id, tenantName string) error
	DeleteByTenant(ctx context.Context, tenantName string) error
}
