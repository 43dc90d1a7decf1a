package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/assign"
)

// QueueHandler exposes the assignment core's queue views.
type QueueHandler struct {
	Engine *assign.Engine
}

func NewQueueHandler(engine *assign.Engine) *QueueHandler {
	return &QueueHandler{Engine: engine}
}

// ActiveTickets returns, per on-duty employee, the tickets active for them
// right now: current CALLING tickets plus at most one next pickup.
func (h *QueueHandler) ActiveTickets(c echo.Context) error {
	departmentID := c.Param("departmentID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	result, err := h.Engine.ActiveTickets(ctx, departmentID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute active tickets failed"})
	}
	return c.JSON(http.StatusOK, result)
}

// Monitor returns the display-board view: per employee, the ticket being
// served and the ordered backlog. The route sits behind the Redis response
// cache since display boards poll it continuously.
func (h *QueueHandler) Monitor(c echo.Context) error {
	departmentID := c.Param("departmentID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Engine.MonitorQueue(ctx, departmentID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "compute monitor view failed"})
	}
	return c.JSON(http.StatusOK, view)
}
