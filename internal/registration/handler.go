package registration

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
	Submit(userID int64, dto SubmitDTO) (*Registration, error)
	ManagerDecision(registrationID, callerID int64, callerRole user.Role, dto DecisionDTO) (*Registration, error)
	LMSDecision(registrationID, callerID int64, callerRole user.Role, dto DecisionDTO) (*Registration, error)
	Cancel(registrationID, callerID int64, callerRole user.Role) (*Registration, error)
	GetByID(registrationID, callerID int64, callerRole user.Role) (*Registration, error)
	ListForCaller(callerID int64, callerRole user.Role) (own []*Registration, pending []*Registration, err error)
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

	var dto SubmitDTO
	if err := h.DecodeAndValidate(r, &dto); err != nil {
		h.Logger.Error("Submit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.Service.Submit(caller.ID, dto)
	if err != nil {
		h.Logger.Error("Submit: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid registration ID")
		return
	}

	reg, err := h.Service.GetByID(id, caller.ID, caller.Role)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	own, pending, err := h.Service.ListForCaller(caller.ID, caller.Role)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"registrations": own,
		"pending":       pending,
	})
}

func (h *Handler) ManagerDecision(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.ManagerDecision)
}

func (h *Handler) LMSDecision(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.LMSDecision)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision func(int64, int64, user.Role, DecisionDTO) (*Registration, error)) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid registration ID")
		return
	}

	var dto DecisionDTO
	if err := h.DecodeAndValidate(r, &dto); err != nil {
		h.Logger.Error("decision: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := decision(id, caller.ID, caller.Role, dto)
	if err != nil {
		h.Logger.Error("decision: service error",
			"error", err,
			"registration_id", id,
			"caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid registration ID")
		return
	}

	reg, err := h.Service.Cancel(id, caller.ID, caller.Role)
	if err != nil {
		h.Logger.Error("Cancel: service error", "error", err, "registration_id", id, "caller_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
