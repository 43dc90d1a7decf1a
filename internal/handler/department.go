package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/repository"
)

// DepartmentHandler serves the branch catalog: departments, their offered
// operation groups, and the operations inside a group.
type DepartmentHandler struct {
	Departments *repository.DepartmentRepo
	Operations  *repository.OperationRepo
}

func NewDepartmentHandler(d *repository.DepartmentRepo, o *repository.OperationRepo) *DepartmentHandler {
	return &DepartmentHandler{Departments: d, Operations: o}
}

// List returns every department with its offered operation groups.
func (h *DepartmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	depts, err := h.Departments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, depts)
}

// OperationGroups returns one department's operation groups expanded to
// their operations.
func (h *DepartmentHandler) OperationGroups(c echo.Context) error {
	departmentID := c.Param("departmentID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	groups, err := h.Departments.OperationGroups(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "department not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, groups)
}

// GroupOperations returns the operations belonging to an operation group.
// A group nobody has populated is indistinguishable from an unknown group;
// both are a 404.
func (h *DepartmentHandler) GroupOperations(c echo.Context) error {
	groupID := c.Param("groupID")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ops, err := h.Operations.ListByGroup(ctx, groupID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(ops) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "operation group not found"})
	}
	return c.JSON(http.StatusOK, ops)
}
