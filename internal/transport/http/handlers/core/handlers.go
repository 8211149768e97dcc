package corehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/core"
	"hreval/internal/transport/http/api"
	"hreval/internal/transport/http/middleware"
	"hreval/internal/transport/http/shared"
)

type RosterService interface {
	ListEmployees(ctx context.Context, filter core.EmployeeFilter, limit, offset int) ([]core.Employee, int, error)
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	ListDepartments(ctx context.Context, limit, offset int) ([]core.Department, int, error)
}

type Handler struct {
	Service RosterService
	Perms   middleware.PermissionStore
}

func NewHandler(service RosterService, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermRosterRead, h.Perms)
	r.With(read).Get("/employees", h.handleListEmployees)
	r.With(read).Get("/employees/{employeeID}", h.handleGetEmployee)
	r.With(read).Get("/departments", h.handleListDepartments)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	query := r.URL.Query()
	filter := core.EmployeeFilter{
		DepartmentID: strings.TrimSpace(query.Get("departmentId")),
		Search:       query.Get("q"),
		Status:       strings.TrimSpace(query.Get("status")),
	}

	employees, total, err := h.Service.ListEmployees(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		slog.Error("list employees failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if employees == nil {
		employees = []core.Employee{}
	}
	api.Success(w, api.Page{Items: employees, Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("get employee failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_fetch_failed", "failed to fetch employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 100, 500)
	departments, total, err := h.Service.ListDepartments(r.Context(), page.Limit, page.Offset)
	if err != nil {
		slog.Error("list departments failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	if departments == nil {
		departments = []core.Department{}
	}
	api.Success(w, api.Page{Items: departments, Total: total, Limit: page.Limit, Offset: page.Offset}, middleware.GetRequestID(r.Context()))
}
