package settings

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	Get(ctx context.Context, actor *coreuser.Actor) (*Settings, error)
	Update(ctx context.Context, actor *coreuser.Actor, dto UpdateSettingsDTO) (*Settings, error)
	SendTest(ctx context.Context, actor *coreuser.Actor, dto TestEmailDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetEmailSettings handles GET /settings/email
func (h *Handler) GetEmailSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	current, err := h.Service.Get(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err, "failed to load settings")
		return
	}

	h.WriteJSON(w, http.StatusOK, current.ToResponse())
}

// UpdateEmailSettings handles PUT /settings/email
func (h *Handler) UpdateEmailSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateSettingsDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	updated, err := h.Service.Update(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to save settings")
		return
	}

	h.WriteJSON(w, http.StatusOK, updated.ToResponse())
}

// SendTestEmail handles POST /settings/email/test
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto TestEmailDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.SendTest(r.Context(), actor, dto); err != nil {
		h.Logger.Warn("SendTestEmail: failed", "error", err, "recipient", dto.Recipient)
		h.HandleServiceError(w, err, "failed to send test email")
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Test email sent successfully"})
}
