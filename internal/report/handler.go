package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context, actor *coreuser.Actor) (*Dashboard, error)
	UserStats(ctx context.Context, actor *coreuser.Actor) (*UserStats, error)
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

// GetStats handles GET /reports/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.Dashboard(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err, "failed to load stats")
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

// GetUserStats handles GET /reports/user_stats
func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.UserStats(r.Context(), actor)
	if err != nil {
		h.Logger.Error("GetUserStats: failed", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err, "failed to load stats")
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
