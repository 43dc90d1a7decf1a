package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/config"
	"github.com/postqms/branch-queue/internal/repository"
	"github.com/postqms/branch-queue/internal/utils"
)

// EmployeeHandler serves staff lookup, duty toggling and admin-only staff
// registration.
type EmployeeHandler struct {
	Cfg       config.Config
	Employees *repository.EmployeeRepo
}

func NewEmployeeHandler(cfg config.Config, e *repository.EmployeeRepo) *EmployeeHandler {
	return &EmployeeHandler{Cfg: cfg, Employees: e}
}

type createEmployeeReq struct {
	TelegramID      string   `json:"telegram_id"`
	Name            string   `json:"name"`
	Password        string   `json:"password"`
	OnDuty          bool     `json:"on_duty"`
	Admin           bool     `json:"admin"`
	DepartmentID    string   `json:"department_id"`
	AllowedGroupIDs []string `json:"allowed_group_ids"`
}

// Get returns the employee registered under the given Telegram id, with
// their allowed operation groups expanded.
func (h *EmployeeHandler) Get(c echo.Context) error {
	telegramID := c.Param("telegramID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	emp, err := h.Employees.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, emp)
}

// ToggleDuty flips the employee's on-duty flag and returns the updated
// record. Going off duty removes the employee from assignment passes but
// leaves existing CALLING assignments untouched.
func (h *EmployeeHandler) ToggleDuty(c echo.Context) error {
	telegramID := c.Param("telegramID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	emp, err := h.Employees.ToggleDuty(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, emp)
}

// Create registers a new employee. The route is guarded by RequireRole
// ("ADMIN"); validation of the department and of every allowed group id
// happens inside the repository transaction.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TelegramID = strings.TrimSpace(req.TelegramID)
	req.Name = strings.TrimSpace(req.Name)
	if req.TelegramID == "" || req.Name == "" || req.DepartmentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "telegram_id/name/department_id required"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	emp, err := h.Employees.Create(ctx, repository.CreateEmployeeInput{
		TelegramID:      req.TelegramID,
		Name:            req.Name,
		OnDuty:          req.OnDuty,
		Admin:           req.Admin,
		DepartmentID:    req.DepartmentID,
		PasswordHash:    hash,
		AllowedGroupIDs: req.AllowedGroupIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return c.JSON(http.StatusConflict, echo.Map{"error": "telegram_id already registered"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown department or operation group"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create employee failed"})
		}
	}
	return c.JSON(http.StatusCreated, emp)
}
