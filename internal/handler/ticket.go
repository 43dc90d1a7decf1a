package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/postqms/branch-queue/internal/assign"
	"github.com/postqms/branch-queue/internal/model"
	"github.com/postqms/branch-queue/internal/queue"
	"github.com/postqms/branch-queue/internal/repository"
	"github.com/postqms/branch-queue/internal/service"
	"github.com/postqms/branch-queue/internal/utils"
)

// TicketHandler issues tickets: it resolves the requested operation to a
// department, generates a stub code, tries an immediate assignment to an
// eligible on-duty employee, and publishes a ticket.created event.
type TicketHandler struct {
	Tickets     *repository.TicketRepo
	Users       *repository.UserRepo
	Operations  *repository.OperationRepo
	Departments *repository.DepartmentRepo
	Employees   *repository.EmployeeRepo
	Engine      *assign.Engine
}

func NewTicketHandler(t *repository.TicketRepo, u *repository.UserRepo, o *repository.OperationRepo,
	d *repository.DepartmentRepo, e *repository.EmployeeRepo, engine *assign.Engine) *TicketHandler {
	return &TicketHandler{Tickets: t, Users: u, Operations: o, Departments: d, Employees: e, Engine: engine}
}

type createTicketReq struct {
	TelegramID    string `json:"telegram_id"`
	OperationID   string `json:"operation_id"`
	AppointedTime string `json:"appointed_time"` // RFC 3339, empty for walk-in
}

type createTicketResp struct {
	Ticket     model.Ticket `json:"ticket"`
	AssignedTo string       `json:"assigned_to,omitempty"`
}

// Create issues a ticket for an operation. The optional Telegram id must
// resolve to a registered user; the department is the first one offering
// the operation's group, falling back to any department when the operation
// belongs to no group. When no on-duty employee can handle the operation
// the ticket is created anyway and stays queued.
func (h *TicketHandler) Create(c echo.Context) error {
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.OperationID = strings.TrimSpace(req.OperationID)
	if req.OperationID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "operation_id required"})
	}

	var appointed *time.Time
	if s := strings.TrimSpace(req.AppointedTime); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "appointed_time must be RFC 3339"})
		}
		utc := t.UTC()
		appointed = &utc
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	op, err := h.Operations.GetByID(ctx, req.OperationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "operation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var userID *string
	if tid := strings.TrimSpace(req.TelegramID); tid != "" {
		u, err := h.Users.GetByTelegramID(ctx, tid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		userID = &u.ID
	}

	departmentID, err := h.resolveDepartment(ctx, op)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no department offers this operation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	code, err := utils.NewTicketCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate code failed"})
	}

	ticket, err := h.Tickets.Create(ctx, repository.CreateTicketInput{
		Code:          code,
		UserID:        userID,
		OperationID:   op.ID,
		DepartmentID:  departmentID,
		AppointedTime: appointed,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}

	roster, err := h.Employees.OnDutyEmployees(ctx, departmentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	var assignedTo string
	if rec, ok, err := h.Engine.AssignTicket(ctx, ticket, roster); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign ticket failed"})
	} else if ok {
		assignedTo = rec.EmployeeID
	}

	h.publishCreated(ticket, op, assignedTo)

	return c.JSON(http.StatusCreated, createTicketResp{Ticket: ticket, AssignedTo: assignedTo})
}

// Get returns one ticket by id.
func (h *TicketHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, c.Param("ticketID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// resolveDepartment routes an operation to a branch: the first department
// offering the operation's group, or any department for group-less
// operations.
func (h *TicketHandler) resolveDepartment(ctx context.Context, op model.Operation) (string, error) {
	if op.OperationGroupID != "" {
		return h.Departments.FirstForGroup(ctx, op.OperationGroupID)
	}
	return h.Departments.First(ctx)
}

// publishCreated fires the ticket.created event. Publishing is best effort:
// the ticket is already persisted, so a broker outage only costs the log
// line downstream.
func (h *TicketHandler) publishCreated(ticket model.Ticket, op model.Operation, assignedTo string) {
	ev := queue.TicketCreatedEvent{
		TicketID:      ticket.ID,
		Code:          ticket.Code,
		OperationID:   op.ID,
		OperationName: op.Name,
		DepartmentID:  ticket.DepartmentID,
		AssignedTo:    assignedTo,
		CreatedAt:     ticket.CreatedAt.Format(time.RFC3339),
	}
	if ticket.UserID != nil {
		ev.UserID = *ticket.UserID
	}
	if ticket.AppointedTime != nil {
		ev.AppointedTime = ticket.AppointedTime.Format(time.RFC3339)
	}

	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := service.PublishTicketCreated(pubCtx, ev); err != nil {
		log.Printf("ticket: publish ticket.created for %s failed: %v", ticket.ID, err)
	}
}
