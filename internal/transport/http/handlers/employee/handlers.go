package employeehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"employee-api/internal/domain/employee"
	"employee-api/internal/requestctx"
	"employee-api/internal/transport/http/api"
	"employee-api/internal/transport/http/middleware"
	"employee-api/internal/transport/http/shared"
)

type Service interface {
	SaveEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error)
	GetAllEmployees(ctx context.Context) ([]employee.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (employee.Employee, bool, error)
	UpdateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type Handler struct {
	Service Service
	Logger  zerolog.Logger
}

func NewHandler(service Service, logger zerolog.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.Put("/", h.handleUpdateEmployee)
			r.Delete("/", h.handleDeleteEmployee)
		})
	})
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeEmployee(w, r)
	if !ok {
		return
	}

	saved, err := h.Service.SaveEmployee(r.Context(), payload)
	if err != nil {
		h.failWrite(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}

	api.Created(w, saved)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.GetAllEmployees(r.Context())
	if err != nil {
		logger := requestctx.Logger(r.Context(), h.Logger)
		logger.Error().Err(err).Msg("employee list failed")
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if employees == nil {
		employees = []employee.Employee{}
	}

	api.Success(w, employees)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(w, r)
	if !ok {
		return
	}

	emp, found, err := h.Service.GetEmployeeByID(r.Context(), employeeID)
	if err != nil {
		logger := requestctx.Logger(r.Context(), h.Logger)
		logger.Error().Err(err).Int64("id", employeeID).Msg("employee lookup failed")
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	if !found {
		api.NotFound(w)
		return
	}

	api.Success(w, emp)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(w, r)
	if !ok {
		return
	}

	_, found, err := h.Service.GetEmployeeByID(r.Context(), employeeID)
	if err != nil {
		logger := requestctx.Logger(r.Context(), h.Logger)
		logger.Error().Err(err).Int64("id", employeeID).Msg("employee lookup failed")
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	if !found {
		api.NotFound(w)
		return
	}

	payload, ok := decodeEmployee(w, r)
	if !ok {
		return
	}
	payload.ID = employeeID

	updated, err := h.Service.UpdateEmployee(r.Context(), payload)
	if err != nil {
		h.failWrite(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}

	api.Success(w, updated)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathEmployeeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteEmployee(r.Context(), employeeID); err != nil {
		logger := requestctx.Logger(r.Context(), h.Logger)
		logger.Error().Err(err).Int64("id", employeeID).Msg("employee delete failed")
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"message": "employee deleted successfully"})
}

func (h *Handler) failWrite(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	switch {
	case errors.Is(err, employee.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "employee_exists", "employee email already exists", middleware.GetRequestID(r.Context()))
	case errors.Is(err, employee.ErrNotFound):
		api.NotFound(w)
	default:
		logger := requestctx.Logger(r.Context(), h.Logger)
		logger.Error().Err(err).Msg(message)
		api.Fail(w, http.StatusInternalServerError, code, message, middleware.GetRequestID(r.Context()))
	}
}

func pathEmployeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	employeeID, err := shared.PathID(r, "employeeID")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_id", err.Error(), middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return employeeID, true
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (employee.Employee, bool) {
	var payload employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request payload too large", middleware.GetRequestID(r.Context()))
			return employee.Employee{}, false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return employee.Employee{}, false
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "is required")
	v.Required("lastName", payload.LastName, "is required")
	v.Required("email", payload.Email, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return employee.Employee{}, false
	}
	return payload, true
}
