package service

import (
	"context"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// NotificationService exposes the per-tenant activity feed. Entries are
// written by the reservation service; this service only reads and retires
// them.
type NotificationService struct {
	repo ports.NotificationRepository
}

func NewNotificationService(repo ports.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) List(ctx context.Context, caller ports.Caller) ([]*domain.Notification, error) {
	if caller.TenantName == "" {
		return nil, domain.ErrTenantMissing
	}
	return s.repo.List(ctx, caller.TenantName)
}

func (s *NotificationService) MarkRead(ctx context.Context, caller ports.Caller, id string) error {
	if !caller.IsAdmin() && caller.TenantName == "" {
		return domain.ErrTenantMissing
	}
	return s.repo.MarkRead(ctx, id, caller.Tenant())
}

func (s *NotificationService) Clear(ctx context.Context, caller ports.Caller) error {
	if caller.TenantName == "" {
		return domain.ErrTenantMissing
	}
	return s.repo.DeleteByTenant(ctx, caller.TenantName)
}
