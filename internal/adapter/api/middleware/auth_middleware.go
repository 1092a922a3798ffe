package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"phonemart/internal/domain/service"
	"phonemart/internal/infrastructure/firebase"
)

type AuthMiddleware struct {
	authClient *firebase.FirebaseAuthClient
}

func NewAuthMiddleware(authClient *firebase.FirebaseAuthClient) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
	}
}

// Authenticate requires a valid Bearer token and puts the uid on both the
// echo context and the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Local development with the memory backend has no Firebase; the
		// debug header stands in for a verified token.
		if m.authClient == nil {
			uid := c.Request().Header.Get("X-Debug-UID")
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "X-Debug-UID header is required")
			}
			m.setIdentity(c, uid)
			return next(c)
		}

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		uid, err := m.authClient.VerifyToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		m.setIdentity(c, uid)
		return next(c)
	}
}

// AuthenticateOptional resolves the uid when a valid token is present but
// lets anonymous requests through; anonymous is a valid session state for
// reads and for the favorites feed.
func (m *AuthMiddleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.authClient == nil {
			if uid := c.Request().Header.Get("X-Debug-UID"); uid != "" {
				m.setIdentity(c, uid)
			}
			return next(c)
		}

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return next(c)
		}

		if uid, err := m.authClient.VerifyToken(c.Request().Context(), parts[1]); err == nil {
			m.setIdentity(c, uid)
		}

		return next(c)
	}
}

func (m *AuthMiddleware) setIdentity(c echo.Context, uid string) {
	c.Set("uid", uid)
	ctx := service.WithUserID(c.Request().Context(), uid)
	c.SetRequest(c.Request().WithContext(ctx))
}
