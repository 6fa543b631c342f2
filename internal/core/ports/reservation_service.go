package ports

import (
	"context"
	"time"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

type CreateReservationInput struct {
	VehicleID       string
	DriverID        string
	ReservationDate time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	Notes           string
}

type UpdateReservationInput struct {
	VehicleID       string
	DriverID        string
	ReservationDate time.Time
	StartDate       *time.Time
	EndDate         *time.Time
	Notes           string
}

// ReservationDetail is a reservation with its vehicle and driver resolved
// for display.
type ReservationDetail struct {
	Reservation *domain.Reservation
	Vehicle     *domain.Vehicle
	Driver      *domain.Driver
}

// ReservationService implements the reservation lifecycle: tenant-scoped
// CRUD plus the two decision channels (admin panel and single-use email
// links).
type ReservationService interface {
	List(ctx context.Context, caller Caller) ([]*ReservationDetail, error)
	Create(ctx context.Context, caller Caller, in CreateReservationInput) (*domain.Reservation, error)
	Update(ctx context.Context, caller Caller, id string, in UpdateReservationInput) (*domain.Reservation, error)
	Delete(ctx context.Context, caller Caller, id string) error
	// DecideByToken consumes a single-use decision token from an email
	// link and applies the approve/reject it encodes.
	DecideByToken(ctx context.Context, token string) (*domain.Reservation, error)
	// DecideByPanel records an admin decision made in the web panel.
	DecideByPanel(ctx context.Context, caller Caller, id string, approve bool) (*domain.Reservation, error)
}

// FleetService implements tenant-scoped vehicle and driver management and
// the company registry.
type FleetService interface {
	ListVehicles(ctx context.Context, caller Caller) ([]*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, caller Caller, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	ListDrivers(ctx context.Context, caller Caller) ([]*domain.Driver, error)
	CreateDriver(ctx context.Context, caller Caller, driver *domain.Driver) (*domain.Driver, error)
	ListCompanies(ctx context.Context) ([]*domain.Company, error)
	CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error)
}

// NotificationService exposes the per-tenant activity feed.
type NotificationService interface {
	List(ctx context.Context, caller Caller) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, caller Caller, id string) error
	Clear(ctx context.Context, caller Caller) error
}
