package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corelearn/training-management/internal/transport"
	"github.com/corelearn/training-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	ListEmployees(callerRole Role) ([]ProfileResponse, error)
	IsManagerOf(managerID, userID int64) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// Me returns the authenticated user's own profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := AuthenticatedFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToProfile())
}

// Get returns another user's profile. Employees can only read themselves;
// managers additionally their reports.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := AuthenticatedFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	allowed := id == caller.ID ||
		caller.Role.CanViewAllEmployees() ||
		(caller.Role == RoleManager && h.Service.IsManagerOf(caller.ID, id))
	if !allowed {
		h.WriteError(w, http.StatusForbidden, "not allowed to view this user")
		return
	}

	u, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToProfile())
}

// List returns the employee directory for LMS managers and admins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := AuthenticatedFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profiles, err := h.Service.ListEmployees(caller.Role)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": profiles,
	})
}
