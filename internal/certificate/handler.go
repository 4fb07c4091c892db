package certificate

import (
	"log/slog"
	"net/http"

	"github.com/corelearn/training-management/internal/auth"
	"github.com/corelearn/training-management/internal/transport"
	"github.com/corelearn/training-management/pkg/logger"
)

type ServiceAPI interface {
	Upload(userID int64, dto UploadDTO) (*Certificate, error)
	ListForUser(userID int64) ([]*Certificate, error)
	ScanExpiring() (int, error)
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

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UploadDTO
	if err := h.DecodeAndValidate(r, &dto); err != nil {
		h.Logger.Error("Upload: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	cert, err := h.Service.Upload(caller.ID, dto)
	if err != nil {
		h.Logger.Error("Upload: service error", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, cert)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	certs, err := h.Service.ListForUser(caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"certificates": certs,
	})
}

// ScanExpiring triggers the expiry reminder sweep. Exposed to LMS managers
// and admins; there is no background timer.
func (h *Handler) ScanExpiring(w http.ResponseWriter, r *http.Request) {
	emitted, err := h.Service.ScanExpiring()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reminders_emitted": emitted,
	})
}
