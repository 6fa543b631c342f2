package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/api/metrics"
	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// AuthHandler handles registration, login, verification-code flows and
// account administration.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// --- Request / Response types ---

type registerRequest struct {
	Username   string `json:"username" validate:"required,min=3"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	TenantName string `json:"tenant_name"`
}

type registerResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type registerAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Code     string `json:"code" validate:"required,len=6"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantName string `json:"tenant_name,omitempty"`
}

// Register creates a regular account. The role is derived from the email
// domain, never taken from the request.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	account, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		TenantName: req.TenantName,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(account.Role).Inc()
	return c.JSON(http.StatusOK, registerResponse{Message: "account created", Role: account.Role})
}

// RegisterAdmin emails a verification code gating admin self-registration.
//
// @Summary      Request an admin registration code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Corporate email"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Router       /auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.RequestAdminCode(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.VerificationCodesIssuedTotal.WithLabelValues(string(domain.PurposeAdminRegistration)).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "verification code sent"})
}

// VerifyAdmin validates the emailed code, creates the admin account and
// returns a session token.
//
// @Summary      Complete admin registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyAdminRequest  true  "Code and credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/verify-admin [post]
func (h *AuthHandler) VerifyAdmin(c echo.Context) error {
	var req verifyAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, account, err := h.service.VerifyAdmin(c.Request().Context(), ports.VerifyAdminInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			metrics.VerificationFailuresTotal.Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(account.Role).Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token, Role: account.Role})
}

// Login authenticates by email or username. All failures render the same
// 401: the response never says which part of the credentials was wrong.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Email or username, and password"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, account, err := h.service.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token, Role: account.Role})
}

// ForgotPassword emails a reset code. It answers 200 even for unknown
// addresses so the endpoint cannot be used to enumerate accounts.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.VerificationCodesIssuedTotal.WithLabelValues(string(domain.PurposePasswordReset)).Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "if the address exists, a reset code was sent"})
}

// ResetPassword sets a new password after validating the reset code.
//
// @Summary      Reset password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email, code and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrCodeInvalid) {
			metrics.VerificationFailuresTotal.Inc()
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Me returns the authenticated account's profile.
//
// @Summary      Current account profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	account, err := h.service.Profile(c.Request().Context(), caller.AccountID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		Username:   account.Username,
		Email:      account.Email,
		Role:       account.Role,
		TenantName: account.TenantName,
	})
}

// ListUsers returns every account. Admin only.
//
// @Summary      List accounts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      403  {object}  map[string]string
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	accounts, err := h.service.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// DeleteUser removes the account with the given email. Admin only.
//
// @Summary      Delete an account by email
// @Tags         auth
// @Security     BearerAuth
// @Param        email  path  string  true  "Account email"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /auth/users/{email} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	if err := h.service.DeleteAccount(c.Request().Context(), c.Param("email")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
