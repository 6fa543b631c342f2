package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/api/metrics"
	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// ReservationHandler handles reservation CRUD, panel decisions and the
// anonymous email decision links.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// --- Request / Response types ---

type reservationRequest struct {
	VehicleID       string     `json:"vehicle_id" validate:"required"`
	DriverID        string     `json:"driver_id" validate:"required"`
	ReservationDate time.Time  `json:"reservation_date" validate:"required"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Notes           string     `json:"notes"`
}

type vehicleSummary struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
}

type driverSummary struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type reservationResponse struct {
	ID              string          `json:"id"`
	TenantName      string          `json:"tenant_name"`
	VehicleID       string          `json:"vehicle_id"`
	DriverID        string          `json:"driver_id"`
	ReservationDate time.Time       `json:"reservation_date"`
	StartDate       *time.Time      `json:"start_date,omitempty"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	DecidedBy       string          `json:"decided_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Vehicle         *vehicleSummary `json:"vehicle,omitempty"`
	Driver          *driverSummary  `json:"driver,omitempty"`
}

func toReservationResponse(r *domain.Reservation, v *domain.Vehicle, d *domain.Driver) reservationResponse {
	resp := reservationResponse{
		ID:              r.ID,
		TenantName:      r.TenantName,
		VehicleID:       r.VehicleID,
		DriverID:        r.DriverID,
		ReservationDate: r.ReservationDate,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Notes:           r.Notes,
		Status:          string(r.Status),
		DecidedBy:       r.DecidedBy,
		CreatedAt:       r.CreatedAt,
	}
	if v != nil {
		resp.Vehicle = &vehicleSummary{ID: v.ID, PlateNumber: v.PlateNumber, Brand: v.Brand, Model: v.Model}
	}
	if d != nil {
		resp.Driver = &driverSummary{ID: d.ID, FullName: d.FullName}
	}
	return resp
}

// List returns the caller's reservations; admins see every tenant.
//
// @Summary      List reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   reservationResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	details, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]reservationResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toReservationResponse(d.Reservation, d.Vehicle, d.Driver))
	}
	return c.JSON(http.StatusOK, out)
}

// Create requests a reservation for the caller's tenant.
//
// @Summary      Create a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reservationRequest  true  "Reservation details"
// @Success      201   {object}  reservationResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.Create(c.Request().Context(), caller, ports.CreateReservationInput{
		VehicleID:       req.VehicleID,
		DriverID:        req.DriverID,
		ReservationDate: req.ReservationDate,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.ReservationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReservationResponse(created, nil, nil))
}

// Update changes the mutable fields of a reservation.
//
// @Summary      Update a reservation
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Reservation id"
// @Param        body  body      reservationRequest  true  "New reservation details"
// @Success      200   {object}  reservationResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req reservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	updated, err := h.service.Update(c.Request().Context(), caller, c.Param("id"), ports.UpdateReservationInput{
		VehicleID:       req.VehicleID,
		DriverID:        req.DriverID,
		ReservationDate: req.ReservationDate,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Notes:           req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toReservationResponse(updated, nil, nil))
}

// Delete removes a reservation.
//
// @Summary      Delete a reservation
// @Tags         reservations
// @Security     BearerAuth
// @Param        id  path  string  true  "Reservation id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Approve records an admin panel approval.
//
// @Summary      Approve a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Reservation id"
// @Success      200  {object}  reservationResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/reservations/{id}/approve [post]
func (h *ReservationHandler) Approve(c echo.Context) error {
	return h.decide(c, true)
}

// Reject records an admin panel rejection.
//
// @Summary      Reject a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Reservation id"
// @Success      200  {object}  reservationResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c echo.Context) error {
	return h.decide(c, false)
}

func (h *ReservationHandler) decide(c echo.Context, approve bool) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	decided, err := h.service.DecideByPanel(c.Request().Context(), caller, c.Param("id"), approve)
	if err != nil {
		return err
	}

	metrics.ReservationDecisionsTotal.WithLabelValues(string(decided.Status), "panel").Inc()
	return c.JSON(http.StatusOK, toReservationResponse(decided, nil, nil))
}

// DecideByLink resolves an anonymous decision link from an approval email.
// The token alone carries the decision; the id and action in the path are
// only there to make the URL readable. Responses are small HTML pages
// because the click comes from a mail client, not an API client.
func (h *ReservationHandler) DecideByLink(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.HTML(http.StatusUnauthorized, decisionPage("Link invalid",
			"This link is malformed. Ask for a new approval email."))
	}

	decided, err := h.service.DecideByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrDecisionLinkInvalid) {
			return c.HTML(http.StatusUnauthorized, decisionPage("Link expired",
				"This link is invalid, already used, or the reservation has already been decided."))
		}
		return err
	}

	metrics.ReservationDecisionsTotal.WithLabelValues(string(decided.Status), "link").Inc()

	verdict := "approved"
	if decided.Status == domain.ReservationRejected {
		verdict = "rejected"
	}
	return c.HTML(http.StatusOK, decisionPage("Reservation "+verdict,
		fmt.Sprintf("The reservation for %s has been %s. You can close this page.",
			decided.ReservationDate.Format("January 2, 2006 15:04"), verdict)))
}

func decisionPage(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family:sans-serif;max-width:480px;margin:64px auto;text-align:center">
<h2>%s</h2>
<p>%s</p>
</body>
</html>`, title, title, body)
}
