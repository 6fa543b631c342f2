package ports

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

// VehicleRepository defines persistence for vehicles. A non-empty tenantName
// scopes the query to that tenant; empty means no tenant filter (admin).
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	FindByID(ctx context.Context, id, tenantName string) (*domain.Vehicle, error)
	List(ctx context.Context, tenantName string) ([]*domain.Vehicle, error)
}

// DriverRepository defines persistence for drivers, with the same tenant
// filtering convention as VehicleRepository.
type DriverRepository interface {
	Create(ctx context.Context, driver *domain.Driver) (*domain.Driver, error)
	FindByID(ctx context.Context, id, tenantName string) (*domain.Driver, error)
	List(ctx context.Context, tenantName string) ([]*domain.Driver, error)
}

// CompanyRepository persists the tenant reference registry.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) (*domain.Company, error)
	List(ctx context.Context) ([]*domain.Company, error)
}
