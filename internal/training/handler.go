package training

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
	CreateTraining(dto CreateTrainingDTO, creatorID int64, creatorRole user.Role) (*Training, error)
	GetTrainingByID(id int64) (*Training, error)
	ListTrainings(filter ListFilter) ([]*Training, error)
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTrainingDTO
	if err := h.DecodeAndValidate(r, &dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.Service.CreateTraining(dto, caller.ID, caller.Role)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid training ID")
		return
	}

	t, err := h.Service.GetTrainingByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Category: r.URL.Query().Get("category"),
		Status:   Status(r.URL.Query().Get("status")),
		Query:    r.URL.Query().Get("q"),
	}

	trainings, err := h.Service.ListTrainings(filter)
	if err != nil {
		h.Logger.Error("List: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trainings": trainings,
	})
}

// Categories serves the closed category list for catalog filters.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": Categories,
	})
}
