package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/api/middleware"
	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

type stubReservationService struct {
	listFn          func(ctx context.Context, caller ports.Caller) ([]*ports.ReservationDetail, error)
	createFn        func(ctx context.Context, caller ports.Caller, in ports.CreateReservationInput) (*domain.Reservation, error)
	updateFn        func(ctx context.Context, caller ports.Caller, id string, in ports.UpdateReservationInput) (*domain.Reservation, error)
	deleteFn        func(ctx context.Context, caller ports.Caller, id string) error
	decideByTokenFn func(ctx context.Context, token string) (*domain.Reservation, error)
	decideByPanelFn func(ctx context.Context, caller ports.Caller, id string, approve bool) (*domain.Reservation, error)
}

func (s *stubReservationService) List(ctx context.Context, caller ports.Caller) ([]*ports.ReservationDetail, error) {
	return s.listFn(ctx, caller)
}

func (s *stubReservationService) Create(ctx context.Context, caller ports.Caller, in ports.CreateReservationInput) (*domain.Reservation, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubReservationService) Update(ctx context.Context, caller ports.Caller, id string, in ports.UpdateReservationInput) (*domain.Reservation, error) {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubReservationService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubReservationService) DecideByToken(ctx context.Context, token string) (*domain.Reservation, error) {
	return s.decideByTokenFn(ctx, token)
}

func (s *stubReservationService) DecideByPanel(ctx context.Context, caller ports.Caller, id string, approve bool) (*domain.Reservation, error) {
	return s.decideByPanelFn(ctx, caller, id, approve)
}

func newReservationContext(method, target, body string, caller *ports.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(middleware.CtxAccountID, caller.AccountID)
		c.Set(middleware.CtxUsername, caller.Username)
		c.Set(middleware.CtxRole, caller.Role)
		c.Set(middleware.CtxTenantName, caller.TenantName)
	}
	return c, rec
}

func TestReservationHandler_Create(t *testing.T) {
	stub := &stubReservationService{
		createFn: func(_ context.Context, caller ports.Caller, in ports.CreateReservationInput) (*domain.Reservation, error) {
			if caller.TenantName != "acme" {
				t.Fatalf("caller tenant = %q", caller.TenantName)
			}
			if in.VehicleID != "veh_1" || in.DriverID != "drv_1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Reservation{
				ID: "rsv_1", TenantName: caller.TenantName, VehicleID: in.VehicleID,
				DriverID: in.DriverID, ReservationDate: in.ReservationDate,
				Status: domain.ReservationPending,
			}, nil
		},
	}
	h := NewReservationHandler(stub)

	caller := &ports.Caller{AccountID: "acc_1", Username: "carlos", Role: domain.RoleUser, TenantName: "acme"}
	c, rec := newReservationContext(http.MethodPost, "/v1/reservations",
		`{"vehicle_id":"veh_1","driver_id":"drv_1","reservation_date":"2026-09-15T09:00:00Z"}`, caller)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != string(domain.ReservationPending) {
		t.Errorf("status = %v", resp["status"])
	}
}

func TestReservationHandler_Create_MissingFields(t *testing.T) {
	h := NewReservationHandler(&stubReservationService{})

	caller := &ports.Caller{AccountID: "acc_1", Role: domain.RoleUser, TenantName: "acme"}
	c, rec := newReservationContext(http.MethodPost, "/v1/reservations", `{"notes":"no refs"}`, caller)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReservationHandler_List_EmbedsSummaries(t *testing.T) {
	stub := &stubReservationService{
		listFn: func(_ context.Context, caller ports.Caller) ([]*ports.ReservationDetail, error) {
			return []*ports.ReservationDetail{{
				Reservation: &domain.Reservation{ID: "rsv_1", TenantName: caller.TenantName, Status: domain.ReservationPending, ReservationDate: time.Now()},
				Vehicle:     &domain.Vehicle{ID: "veh_1", PlateNumber: "ABC-123"},
				Driver:      &domain.Driver{ID: "drv_1", FullName: "Ana Reyes"},
			}}, nil
		},
	}
	h := NewReservationHandler(stub)

	caller := &ports.Caller{AccountID: "acc_1", Role: domain.RoleUser, TenantName: "acme"}
	c, rec := newReservationContext(http.MethodGet, "/v1/reservations", "", caller)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("got %d reservations", len(resp))
	}
	vehicle, _ := resp[0]["vehicle"].(map[string]any)
	if vehicle == nil || vehicle["plate_number"] != "ABC-123" {
		t.Errorf("vehicle summary = %v", vehicle)
	}
}

func TestReservationHandler_PanelDecision(t *testing.T) {
	stub := &stubReservationService{
		decideByPanelFn: func(_ context.Context, caller ports.Caller, id string, approve bool) (*domain.Reservation, error) {
			if !approve || id != "rsv_1" || caller.Username != "ops" {
				t.Fatalf("unexpected call: id=%s approve=%v caller=%s", id, approve, caller.Username)
			}
			return &domain.Reservation{ID: id, Status: domain.ReservationApproved, DecidedBy: caller.Username, ReservationDate: time.Now()}, nil
		},
	}
	h := NewReservationHandler(stub)

	admin := &ports.Caller{AccountID: "acc_2", Username: "ops", Role: domain.RoleAdmin}
	c, rec := newReservationContext(http.MethodPost, "/v1/reservations/rsv_1/approve", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("rsv_1")

	if err := h.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReservationHandler_DecideByLink(t *testing.T) {
	stub := &stubReservationService{
		decideByTokenFn: func(_ context.Context, token string) (*domain.Reservation, error) {
			if token != "good-token" {
				return nil, domain.ErrDecisionLinkInvalid
			}
			return &domain.Reservation{ID: "rsv_1", Status: domain.ReservationApproved, ReservationDate: time.Now()}, nil
		},
	}
	h := NewReservationHandler(stub)

	c, rec := newReservationContext(http.MethodGet, "/reservations/approve/rsv_1?token=good-token", "", nil)
	if err := h.DecideByLink(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "approved") {
		t.Error("success page does not state the verdict")
	}
}

func TestReservationHandler_DecideByLink_Invalid(t *testing.T) {
	stub := &stubReservationService{
		decideByTokenFn: func(context.Context, string) (*domain.Reservation, error) {
			return nil, domain.ErrDecisionLinkInvalid
		},
	}
	h := NewReservationHandler(stub)

	c, rec := newReservationContext(http.MethodGet, "/reservations/approve/rsv_1?token=stale", "", nil)
	if err := h.DecideByLink(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	// Missing token short-circuits without touching the service.
	c2, rec2 := newReservationContext(http.MethodGet, "/reservations/approve/rsv_1", "", nil)
	if err := h.DecideByLink(c2); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec2.Code)
	}
}

func TestReservationHandler_Delete(t *testing.T) {
	var deletedID string
	stub := &stubReservationService{
		deleteFn: func(_ context.Context, _ ports.Caller, id string) error {
			deletedID = id
			return nil
		},
	}
	h := NewReservationHandler(stub)

	caller := &ports.Caller{AccountID: "acc_1", Role: domain.RoleUser, TenantName: "acme"}
	c, rec := newReservationContext(http.MethodDelete, "/v1/reservations/rsv_1", "", caller)
	c.SetParamNames("id")
	c.SetParamValues("rsv_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if deletedID != "rsv_1" {
		t.Errorf("deleted = %q", deletedID)
	}
}
