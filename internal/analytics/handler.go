package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corelearn/training-management/internal/auth"
	"github.com/corelearn/training-management/internal/transport"
	"github.com/corelearn/training-management/internal/user"
	"github.com/corelearn/training-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	TrainingStats() (*TrainingStats, error)
	EmployeeStats(targetID, callerID int64, callerRole user.Role) (*EmployeeStats, error)
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

func (h *Handler) TrainingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.TrainingStats()
	if err != nil {
		h.Logger.Error("TrainingStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) EmployeeStats(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || targetID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	stats, err := h.Service.EmployeeStats(targetID, caller.ID, caller.Role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}
