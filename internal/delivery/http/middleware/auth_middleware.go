package middleware

import (
	"net/http"
	"strings"

	"stockroom/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys populated by Authenticate for downstream handlers.
const (
	KeyAccountID    = "accountID"
	KeyAccountEmail = "accountEmail"
)

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and puts the caller's
// identity on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set account info on the context for handlers to use
		c.Set(KeyAccountID, claims.AccountID)
		c.Set(KeyAccountEmail, claims.Email)

		return next(c)
	}
}

// AccountIDFromContext returns the authenticated account ID set by
// Authenticate. It must be used AFTER the Authenticate middleware.
func AccountIDFromContext(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(KeyAccountID).(uuid.UUID)

	return id, ok
}
