package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/api/metrics"
	"github.com/hcm-suite/hcm-system/internal/core/domain"
	"github.com/hcm-suite/hcm-system/internal/core/ports"
	"github.com/hcm-suite/hcm-system/internal/token"
)

// LoginThrottle limits repeated failed logins per email. Implemented by
// the redis login limiter; nil disables throttling.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthHandler handles HTTP requests on the auth service: login and the
// credential lifecycle operations the people service calls remotely.
type AuthHandler struct {
	service  ports.CredentialService
	issuer   *token.Issuer
	throttle LoginThrottle
}

func NewAuthHandler(service ports.CredentialService, issuer *token.Issuer, throttle LoginThrottle) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer, throttle: throttle}
}

// Login authenticates a credential and returns a signed identity assertion.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()

	if h.throttle != nil {
		// A throttle outage must not lock everyone out; only a positive
		// answer blocks the login.
		if blocked, err := h.throttle.TooManyAttempts(ctx, req.Email); err == nil && blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many failed logins, try again later"})
		}
	}

	cred, err := h.service.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if h.throttle != nil {
			_ = h.throttle.RecordFailure(ctx, req.Email)
		}
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
	}

	if h.throttle != nil {
		_ = h.throttle.Reset(ctx, req.Email)
	}

	signed, err := h.issuer.Issue(token.Identity{
		SubjectID: cred.ID,
		Name:      cred.FullName,
		Email:     cred.Email,
		Role:      cred.Role,
	})
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: signed})
}

// Register creates a new credential.
//
// @Summary      Register a credential
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      credentialRequest  true  "Credential details"
// @Success      201   "created"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	input, ok := h.bindCredential(c)
	if !ok {
		return nil
	}

	res := h.service.CreateCredential(c.Request().Context(), input)
	if !res.OK {
		return c.JSON(resultStatus(res, http.StatusConflict), errorResponse{Error: res.Reason})
	}
	return c.NoContent(http.StatusCreated)
}

// Update replaces the email, display name and role of an existing
// credential. The email query parameter selects the credential to
// update; when absent the body email is used as the key, which covers
// every update that does not change the email.
//
// @Summary      Update a credential
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string             false  "Current email, required when changing it"
// @Param        body   body      credentialRequest  true   "New credential values"
// @Success      204    "updated"
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /api/auth/users [put]
func (h *AuthHandler) Update(c echo.Context) error {
	input, ok := h.bindCredential(c)
	if !ok {
		return nil
	}

	email := c.QueryParam("email")
	if email == "" {
		email = input.Email
	}

	res := h.service.UpdateCredential(c.Request().Context(), email, input)
	if !res.OK {
		return c.JSON(resultStatus(res, http.StatusInternalServerError), errorResponse{Error: res.Reason})
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword replaces a credential's password after validating the
// current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      204   "changed"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	// Non-admin callers may only change their own password.
	if ident.Role != domain.RoleHRAdmin && !strings.EqualFold(ident.Email, req.Email) {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
	}

	res := h.service.ChangePassword(c.Request().Context(), req.Email, req.CurrentPassword, req.NewPassword)
	if !res.OK {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: res.Reason})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the credential identified by the email query parameter.
//
// @Summary      Delete a credential
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  true  "Credential email"
// @Success      204    "deleted"
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/auth/users [delete]
func (h *AuthHandler) Delete(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "email is required"})
	}

	res := h.service.DeleteCredential(c.Request().Context(), email)
	if !res.OK {
		return c.JSON(resultStatus(res, http.StatusInternalServerError), errorResponse{Error: res.Reason})
	}
	return c.NoContent(http.StatusNoContent)
}

// bindCredential binds and validates the shared credential wire shape.
// On failure the 400 response has already been written and ok is false.
func (h *AuthHandler) bindCredential(c echo.Context) (ports.CredentialInput, bool) {
	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return ports.CredentialInput{}, false
	}
	if err := c.Validate(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return ports.CredentialInput{}, false
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return ports.CredentialInput{}, false
	}

	return ports.CredentialInput{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     role,
		Password: req.Password,
	}, true
}

// resultStatus maps a classified OperationResult failure to a status
// code; unclassified failures fall through to fallback.
func resultStatus(res domain.OperationResult, fallback int) int {
	switch res.Kind {
	case domain.FailureNotFound:
		return http.StatusNotFound
	case domain.FailureConflict:
		return http.StatusConflict
	}
	return fallback
}
