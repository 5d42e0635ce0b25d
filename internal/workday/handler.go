package workday

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	SetDayType(ctx context.Context, actor *coreuser.Actor, dto SetWorkDayDTO) (*WorkDay, error)
	ListExceptions(ctx context.Context, from, to time.Time) ([]*WorkDay, error)
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

// ListWorkDays handles GET /workdays?start_date=&end_date=
func (h *Handler) ListWorkDays(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	if v := r.URL.Query().Get("start_date"); v != "" {
		parsed, err := validation.ParseDate("start_date", v)
		if err != nil {
			h.HandleServiceError(w, err, "invalid start_date")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		parsed, err := validation.ParseDate("end_date", v)
		if err != nil {
			h.HandleServiceError(w, err, "invalid end_date")
			return
		}
		to = parsed
	}

	days, err := h.Service.ListExceptions(r.Context(), from, to)
	if err != nil {
		h.Logger.Error("ListWorkDays: failed to list work days", "error", err)
		h.HandleServiceError(w, err, "failed to list work days")
		return
	}

	resp := WorkDaysResponse{WorkDays: make([]WorkDayResponse, 0, len(days))}
	for _, d := range days {
		resp.WorkDays = append(resp.WorkDays, d.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// SetWorkDay handles POST /workdays
func (h *Handler) SetWorkDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SetWorkDayDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	day, err := h.Service.SetDayType(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("SetWorkDay: failed to set day type", "error", err, "date", dto.Date)
		h.HandleServiceError(w, err, "failed to update work calendar")
		return
	}

	h.WriteJSON(w, http.StatusOK, day.ToResponse())
}
