package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// decidedByLink marks decisions taken through an emailed capability link,
// where no authenticated identity is available.
const decidedByLink = "email-link"

// ReservationService implements the reservation lifecycle: tenant-scoped
// CRUD, admin decisions from the panel, and single-use decision links
// delivered by email.
type ReservationService struct {
	reservations  ports.ReservationRepository
	vehicles      ports.VehicleRepository
	drivers       ports.DriverRepository
	accounts      ports.AccountRepository
	notifications ports.NotificationRepository
	decisions     ports.DecisionTokenStore
	mail          ports.MailDispatcher
	baseURL       string
	linkTTL       time.Duration
	log           zerolog.Logger
}

func NewReservationService(
	reservations ports.ReservationRepository,
	vehicles ports.VehicleRepository,
	drivers ports.DriverRepository,
	accounts ports.AccountRepository,
	notifications ports.NotificationRepository,
	decisions ports.DecisionTokenStore,
	mail ports.MailDispatcher,
	baseURL string,
	linkTTL time.Duration,
	log zerolog.Logger,
) *ReservationService {
	if linkTTL <= 0 {
		linkTTL = 72 * time.Hour
	}
	return &ReservationService{
		reservations:  reservations,
		vehicles:      vehicles,
		drivers:       drivers,
		accounts:      accounts,
		notifications: notifications,
		decisions:     decisions,
		mail:          mail,
		baseURL:       baseURL,
		linkTTL:       linkTTL,
		log:           log,
	}
}

// List returns the caller's reservations with vehicle and driver resolved.
// Non-admins see only their own tenant; admins see everything.
func (s *ReservationService) List(ctx context.Context, caller ports.Caller) ([]*ports.ReservationDetail, error) {
	reservations, err := s.reservations.List(ctx, caller.Tenant())
	if err != nil {
		return nil, err
	}

	details := make([]*ports.ReservationDetail, 0, len(reservations))
	for _, r := range reservations {
		d := &ports.ReservationDetail{Reservation: r}
		// Lookups are global here: the reservation itself is already
		// tenant-checked and its references may predate a fleet change.
		if v, err := s.vehicles.FindByID(ctx, r.VehicleID, ""); err == nil {
			d.Vehicle = v
		}
		if dr, err := s.drivers.FindByID(ctx, r.DriverID, ""); err == nil {
			d.Driver = dr
		}
		details = append(details, d)
	}
	return details, nil
}

// Create persists a pending reservation for the caller's tenant, records a
// tenant notification, and emails the requester plus every admin. Mail and
// notification failures are logged, never propagated: the reservation is
// already committed.
func (s *ReservationService) Create(ctx context.Context, caller ports.Caller, in ports.CreateReservationInput) (*domain.Reservation, error) {
	if caller.TenantName == "" {
		return nil, domain.ErrTenantMissing
	}

	vehicle, err := s.vehicles.FindByID(ctx, in.VehicleID, caller.Tenant())
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, domain.ErrInvalidReservation
		}
		return nil, err
	}
	driver, err := s.drivers.FindByID(ctx, in.DriverID, caller.Tenant())
	if err != nil {
		if errors.Is(err, domain.ErrDriverNotFound) {
			return nil, domain.ErrInvalidReservation
		}
		return nil, err
	}

	reservation := &domain.Reservation{
		TenantName:      caller.TenantName,
		AccountID:       caller.AccountID,
		VehicleID:       in.VehicleID,
		DriverID:        in.DriverID,
		ReservationDate: in.ReservationDate,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Notes:           in.Notes,
		Status:          domain.ReservationPending,
		CreatedAt:       time.Now().UTC(),
	}

	created, err := s.reservations.Create(ctx, reservation)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, created.TenantName, domain.NotificationSuccess,
		fmt.Sprintf("New reservation requested for %s", created.ReservationDate.Format("2006-01-02 15:04")))

	if requester, err := s.accounts.FindByID(ctx, caller.AccountID); err == nil && requester.Email != "" {
		s.mail.Enqueue(reservationCreatedMail(requester.Email, requester.Username, created, vehicle, driver))
	}

	s.mailAdmins(ctx, created, vehicle, driver)

	s.log.Info().Str("reservation_id", created.ID).Str("tenant", created.TenantName).
		Str("vehicle_id", created.VehicleID).Msg("reservation created")
	return created, nil
}

// mailAdmins sends every admin an approval request carrying fresh
// single-use approve and reject links.
func (s *ReservationService) mailAdmins(ctx context.Context, r *domain.Reservation, v *domain.Vehicle, d *domain.Driver) {
	admins, err := s.accounts.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list admins for approval mail")
		return
	}

	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		approveURL, err := s.decisionLink(ctx, r.ID, true)
		if err != nil {
			s.log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to create approve link")
			continue
		}
		rejectURL, err := s.decisionLink(ctx, r.ID, false)
		if err != nil {
			s.log.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to create reject link")
			continue
		}
		s.mail.Enqueue(reservationApprovalMail(admin.Email, r, v, d, approveURL, rejectURL))
	}
}

// decisionLink mints a random single-use token, stores it with a TTL, and
// returns the full URL to embed in an email.
func (s *ReservationService) decisionLink(ctx context.Context, reservationID string, approve bool) (string, error) {
	tok, err := newDecisionToken()
	if err != nil {
		return "", err
	}
	ref := domain.DecisionRef{ReservationID: reservationID, Approve: approve}
	if err := s.decisions.Save(ctx, tok, ref, s.linkTTL); err != nil {
		return "", err
	}

	action := "approve"
	if !approve {
		action = "reject"
	}
	return fmt.Sprintf("%s/reservations/%s/%s?token=%s", s.baseURL, action, reservationID, tok), nil
}

// Update changes the mutable fields of a reservation. Non-admins may only
// touch reservations in their own tenant. Approval state is not mutable
// here; decisions go through the panel or link endpoints.
func (s *ReservationService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateReservationInput) (*domain.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && reservation.TenantName != caller.TenantName {
		return nil, domain.ErrForbidden
	}

	if _, err := s.vehicles.FindByID(ctx, in.VehicleID, caller.Tenant()); err != nil {
		return nil, domain.ErrInvalidReservation
	}
	if _, err := s.drivers.FindByID(ctx, in.DriverID, caller.Tenant()); err != nil {
		return nil, domain.ErrInvalidReservation
	}

	reservation.VehicleID = in.VehicleID
	reservation.DriverID = in.DriverID
	reservation.ReservationDate = in.ReservationDate
	reservation.StartDate = in.StartDate
	reservation.EndDate = in.EndDate
	reservation.Notes = in.Notes

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// Delete removes a reservation, subject to the same tenant rule as Update,
// and records a warning notification for the tenant.
func (s *ReservationService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && reservation.TenantName != caller.TenantName {
		return domain.ErrForbidden
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, reservation.TenantName, domain.NotificationWarning,
		fmt.Sprintf("A reservation for %s was deleted", reservation.ReservationDate.Format("2006-01-02 15:04")))
	return nil
}

// DecideByToken consumes a single-use decision token from an email link.
// The token is invalidated atomically on consumption; a link to an
// already-decided reservation is also rejected, so the surviving token of
// an approve/reject pair dies with the first decision.
func (s *ReservationService) DecideByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	ref, err := s.decisions.Consume(ctx, token)
	if err != nil {
		return nil, domain.ErrDecisionLinkInvalid
	}

	reservation, err := s.reservations.FindByID(ctx, ref.ReservationID)
	if err != nil {
		return nil, domain.ErrDecisionLinkInvalid
	}
	if reservation.Decided() {
		return nil, domain.ErrDecisionLinkInvalid
	}

	return s.applyDecision(ctx, reservation, ref.Approve, decidedByLink)
}

// DecideByPanel records a decision made by an admin in the web panel.
func (s *ReservationService) DecideByPanel(ctx context.Context, caller ports.Caller, id string, approve bool) (*domain.Reservation, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.applyDecision(ctx, reservation, approve, caller.Username)
}

func (s *ReservationService) applyDecision(ctx context.Context, reservation *domain.Reservation, approve bool, decidedBy string) (*domain.Reservation, error) {
	if approve {
		reservation.Status = domain.ReservationApproved
	} else {
		reservation.Status = domain.ReservationRejected
	}
	reservation.DecidedBy = decidedBy

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}

	kind := domain.NotificationSuccess
	verdict := "approved"
	if !approve {
		kind = domain.NotificationWarning
		verdict = "rejected"
	}
	s.notify(ctx, reservation.TenantName, kind,
		fmt.Sprintf("Reservation for %s was %s", reservation.ReservationDate.Format("2006-01-02 15:04"), verdict))

	if requester, err := s.accounts.FindByID(ctx, reservation.AccountID); err == nil && requester.Email != "" {
		s.mail.Enqueue(reservationDecidedMail(requester.Email, reservation))
	}

	s.log.Info().Str("reservation_id", reservation.ID).Str("status", string(reservation.Status)).
		Str("decided_by", decidedBy).Msg("reservation decided")
	return reservation, nil
}

func (s *ReservationService) notify(ctx context.Context, tenant, kind, message string) {
	err := s.notifications.Insert(ctx, &domain.Notification{
		TenantName: tenant,
		Message:    message,
		Type:       kind,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("tenant", tenant).Msg("failed to record notification")
	}
}

func newDecisionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
