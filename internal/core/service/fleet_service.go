package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// FleetService manages the tenant-scoped vehicle and driver registries and
// the company reference list.
type FleetService struct {
	vehicles  ports.VehicleRepository
	drivers   ports.DriverRepository
	companies ports.CompanyRepository
	log       zerolog.Logger
}

func NewFleetService(
	vehicles ports.VehicleRepository,
	drivers ports.DriverRepository,
	companies ports.CompanyRepository,
	log zerolog.Logger,
) *FleetService {
	return &FleetService{vehicles: vehicles, drivers: drivers, companies: companies, log: log}
}

func (s *FleetService) ListVehicles(ctx context.Context, caller ports.Caller) ([]*domain.Vehicle, error) {
	return s.vehicles.List(ctx, caller.Tenant())
}

// CreateVehicle stamps the vehicle with the caller's tenant; the client
// cannot place records in another tenant.
func (s *FleetService) CreateVehicle(ctx context.Context, caller ports.Caller, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	if caller.TenantName == "" {
		return nil, domain.ErrTenantMissing
	}
	vehicle.TenantName = caller.TenantName
	vehicle.CreatedAt = time.Now().UTC()

	created, err := s.vehicles.Create(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("plate", created.PlateNumber).Str("tenant", created.TenantName).Msg("vehicle created")
	return created, nil
}

func (s *FleetService) ListDrivers(ctx context.Context, caller ports.Caller) ([]*domain.Driver, error) {
	return s.drivers.List(ctx, caller.Tenant())
}

func (s *FleetService) CreateDriver(ctx context.Context, caller ports.Caller, driver *domain.Driver) (*domain.Driver, error) {
	if caller.TenantName == "" {
		return nil, domain.ErrTenantMissing
	}
	driver.TenantName = caller.TenantName
	driver.CreatedAt = time.Now().UTC()

	created, err := s.drivers.Create(ctx, driver)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("driver", created.FullName).Str("tenant", created.TenantName).Msg("driver created")
	return created, nil
}

func (s *FleetService) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	return s.companies.List(ctx)
}

func (s *FleetService) CreateCompany(ctx context.Context, company *domain.Company) (*domain.Company, error) {
	company.CreatedAt = time.Now().UTC()
	return s.companies.Create(ctx, company)
}
