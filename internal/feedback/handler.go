package feedback

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corelearn/training-management/internal/auth"
	"github.com/corelearn/training-management/internal/transport"
	"github.com/corelearn/training-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(userID int64, dto SubmitDTO) (*Feedback, error)
	ListForTraining(trainingID int64) ([]*Feedback, *Summary, error)
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

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	trainingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || trainingID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid training ID")
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Submit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.TrainingID = trainingID

	f, err := h.Service.Submit(caller.ID, dto)
	if err != nil {
		h.Logger.Error("Submit: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, f)
}

func (h *Handler) ListForTraining(w http.ResponseWriter, r *http.Request) {
	trainingID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || trainingID <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid training ID")
		return
	}

	entries, summary, err := h.Service.ListForTraining(trainingID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": entries,
		"summary":  summary,
	})
}
