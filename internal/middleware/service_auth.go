// Package middleware provides shared request processing: service-client
// token validation, employee JWT validation, role enforcement, Redis
// response caching and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/model"
	"github.com/postqms/branch-queue/internal/repository"
	"github.com/postqms/branch-queue/internal/utils"
)

// ClientSource looks up an API consumer by the SHA-256 hash of its secret
// token.  The service-client repository satisfies it; tests supply a stub.
type ClientSource interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (model.ServiceClient, error)
}

// ServiceAuth validates the static Bearer secret every service client
// (terminal, monitor frontend, Telegram bots) sends with each request.
// The token is hashed before lookup so plaintext secrets never reach the
// database.  Handlers can read the caller's name via c.Get("service_client").
func ServiceAuth(clients ClientSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			secret := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if secret == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			defer cancel()
			client, err := clients.GetByTokenHash(ctx, utils.HashToken(secret))
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth lookup failed"})
			}
			c.Set("service_client", client.Name)
			return next(c)
		}
	}
}
