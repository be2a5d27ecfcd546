// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"stockroom/internal/delivery/http/middleware"
	"stockroom/internal/delivery/http/response"
	"stockroom/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the credential lifecycle handlers.
type AuthHandler struct {
	uc usecase.AuthUsecase
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, account, "Account registered successfully")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	tokens, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Login successful")
}

// Refresh handles the token rotation request. The account identity comes
// from the authenticated bearer, not the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "ACCESS_DENIED", "Access denied")
	}

	var input *usecase.RefreshInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}
	input.AccountID = accountID

	tokens, err := h.uc.RefreshTokens(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Tokens refreshed successfully")
}

// Logout handles the logout request.
func (h *AuthHandler) Logout(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return response.Unauthorized(c, "ACCESS_DENIED", "Access denied")
	}

	if err := h.uc.Logout(c.Request().Context(), accountID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
