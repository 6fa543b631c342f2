package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// FleetHandler handles vehicle and driver management.
type FleetHandler struct {
	service ports.FleetService
}

func NewFleetHandler(service ports.FleetService) *FleetHandler {
	return &FleetHandler{service: service}
}

type createVehicleRequest struct {
	PlateNumber string `json:"plate_number" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Model       string `json:"model" validate:"required"`
	DriverID    string `json:"driver_id"`
}

type createDriverRequest struct {
	FullName      string `json:"full_name" validate:"required"`
	PhoneNumber   string `json:"phone_number"`
	LicenseNumber string `json:"license_number" validate:"required"`
	NationalID    string `json:"national_id"`
}

// ListVehicles returns the caller's tenant fleet; admins see every tenant.
//
// @Summary      List vehicles
// @Tags         fleet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Vehicle
// @Failure      401  {object}  map[string]string
// @Router       /v1/vehicles [get]
func (h *FleetHandler) ListVehicles(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	vehicles, err := h.service.ListVehicles(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicles)
}

// CreateVehicle registers a vehicle in the caller's tenant.
//
// @Summary      Create a vehicle
// @Tags         fleet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVehicleRequest  true  "Vehicle details"
// @Success      201   {object}  domain.Vehicle
// @Failure      400   {object}  map[string]string
// @Router       /v1/vehicles [post]
func (h *FleetHandler) CreateVehicle(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createVehicleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.CreateVehicle(c.Request().Context(), caller, &domain.Vehicle{
		PlateNumber: req.PlateNumber,
		Brand:       req.Brand,
		Model:       req.Model,
		DriverID:    req.DriverID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListDrivers returns the caller's tenant drivers; admins see every tenant.
//
// @Summary      List drivers
// @Tags         fleet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Driver
// @Failure      401  {object}  map[string]string
// @Router       /v1/drivers [get]
func (h *FleetHandler) ListDrivers(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	drivers, err := h.service.ListDrivers(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, drivers)
}

// CreateDriver registers a driver in the caller's tenant.
//
// @Summary      Create a driver
// @Tags         fleet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDriverRequest  true  "Driver details"
// @Success      201   {object}  domain.Driver
// @Failure      400   {object}  map[string]string
// @Router       /v1/drivers [post]
func (h *FleetHandler) CreateDriver(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createDriverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := h.service.CreateDriver(c.Request().Context(), caller, &domain.Driver{
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		LicenseNumber: req.LicenseNumber,
		NationalID:    req.NationalID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}
