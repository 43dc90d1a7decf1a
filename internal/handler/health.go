// Package handler contains the HTTP endpoint implementations. Handlers
// bind request DTOs, call repositories and the assignment core with a
// bounded context, and map repository sentinel errors to HTTP statuses.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness probe. It does not touch the database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
