package activitylog

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, offset, limit int) ([]*ActivityLog, error)
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

// ListActivityLogs handles GET /activity-logs?skip=&limit=
func (h *Handler) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Service.List(r.Context(), transport.QueryInt(r, "skip", 0), transport.QueryInt(r, "limit", defaultLimit))
	if err != nil {
		h.Logger.Error("ListActivityLogs: failed", "error", err)
		h.HandleServiceError(w, err, "failed to list activity logs")
		return
	}

	resp := ActivityLogsResponse{ActivityLogs: make([]ActivityLogResponse, 0, len(logs))}
	for _, l := range logs {
		resp.ActivityLogs = append(resp.ActivityLogs, l.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}
