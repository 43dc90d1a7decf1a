// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/postqms/branch-queue/internal/config"
	"github.com/postqms/branch-queue/internal/handler"
	"github.com/postqms/branch-queue/internal/middleware"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Employees   *handler.EmployeeHandler
	Departments *handler.DepartmentHandler
	Tickets     *handler.TicketHandler
	Queue       *handler.QueueHandler
}

// Register wires all routes onto the Echo instance.
//
// Three surfaces exist:
//   - /healthz and /v1/auth/* are open (auth issues the tokens everything
//     else needs).
//   - /v1/* is the service-client API: every route requires a valid Bearer
//     service token and sits behind the Redis rate limiter. The monitor
//     view additionally goes through the response cache because display
//     boards poll it.
//   - /v1/admin/* requires an employee JWT with the ADMIN role on top of
//     the service token.
//
// rdb may be nil; the cache and rate-limit middleware then pass requests
// straight through.
func Register(e *echo.Echo, cfg config.Config, h Handlers, clients middleware.ClientSource, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Employee console auth: open endpoints that issue and rotate tokens.
	auth := e.Group("/v1/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me, middleware.JWTAuth(cfg.JWTSecret))

	// Service-client API: Telegram bots, terminals and display boards.
	api := e.Group("/v1")
	api.Use(middleware.ServiceAuth(clients))
	api.Use(middleware.RateLimit(config.LoadRateLimit(), rdb))

	api.POST("/users", h.Users.Create)
	api.GET("/users/:telegramID", h.Users.Get)

	api.GET("/employees/:telegramID", h.Employees.Get)
	api.PATCH("/employees/:telegramID/toggle-duty", h.Employees.ToggleDuty)

	api.GET("/departments", h.Departments.List)
	api.GET("/departments/:departmentID/operation-groups", h.Departments.OperationGroups)
	api.GET("/operation-groups/:groupID/operations", h.Departments.GroupOperations)

	api.POST("/tickets", h.Tickets.Create)
	api.GET("/tickets/:ticketID", h.Tickets.Get)

	api.GET("/queue/active-tickets/:departmentID", h.Queue.ActiveTickets)
	api.GET("/queue/monitor/:departmentID", h.Queue.Monitor,
		middleware.ResponseCache(config.LoadCache(), rdb))

	// Admin surface: staff registration needs an ADMIN console token on top
	// of the service token.
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/employees", h.Employees.Create)
}
