package timesheet

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	Upsert(ctx context.Context, actor *coreuser.Actor, entry Entry) (*Timesheet, error)
	BatchUpsert(ctx context.Context, actor *coreuser.Actor, entries []Entry) ([]*Timesheet, error)
	VerifyDay(ctx context.Context, leader *coreuser.Actor, userID int64, date time.Time) (*VerifyResult, error)
	List(ctx context.Context, actor *coreuser.Actor, filter ListFilter) ([]*Timesheet, error)
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

// UpsertTimesheet handles POST /timesheets
func (h *Handler) UpsertTimesheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpsertTimesheetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, verr := dto.ToEntry(actor.ID)
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid timesheet")
		return
	}

	saved, err := h.Service.Upsert(r.Context(), actor, entry)
	if err != nil {
		h.Logger.Warn("UpsertTimesheet: rejected", "error", err, "actor_id", actor.ID, "user_id", entry.UserID)
		h.HandleServiceError(w, err, "failed to save timesheet")
		return
	}

	h.WriteJSON(w, http.StatusOK, saved.ToResponse())
}

// BatchUpsertTimesheets handles POST /timesheets/batch
func (h *Handler) BatchUpsertTimesheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BatchUpsertDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entries := make([]Entry, 0, len(dto.Entries))
	for _, item := range dto.Entries {
		entry, verr := item.ToEntry(actor.ID)
		if verr != nil {
			h.HandleServiceError(w, verr, "invalid timesheet")
			return
		}
		entries = append(entries, entry)
	}

	saved, err := h.Service.BatchUpsert(r.Context(), actor, entries)
	if err != nil {
		h.Logger.Warn("BatchUpsertTimesheets: rejected", "error", err, "actor_id", actor.ID, "entries", len(entries))
		h.HandleServiceError(w, err, "failed to save timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, toListResponse(saved))
}

// VerifyDay handles POST /timesheets/verify
func (h *Handler) VerifyDay(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto VerifyDayDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if verr := dto.Validate(); verr != nil {
		h.HandleServiceError(w, verr, "invalid request")
		return
	}
	date, verr := validation.ParseDate("date", dto.Date)
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid date")
		return
	}

	result, err := h.Service.VerifyDay(r.Context(), actor, dto.UserID, date)
	if err != nil {
		h.Logger.Warn("VerifyDay: rejected", "error", err, "leader_id", actor.ID, "user_id", dto.UserID)
		h.HandleServiceError(w, err, "failed to verify timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ListTimesheets handles GET /timesheets?user_id=&project_id=&start_date=&end_date=&skip=&limit=
func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Offset: transport.QueryInt(r, "skip", 0),
		Limit:  transport.QueryInt(r, "limit", 100),
	}
	if v := q.Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter.UserIDs = []int64{id}
	}
	if v := q.Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid project_id")
			return
		}
		filter.ProjectID = id
	}
	if v := q.Get("start_date"); v != "" {
		d, verr := validation.ParseDate("start_date", v)
		if verr != nil {
			h.HandleServiceError(w, verr, "invalid start_date")
			return
		}
		filter.From = d
	}
	if v := q.Get("end_date"); v != "" {
		d, verr := validation.ParseDate("end_date", v)
		if verr != nil {
			h.HandleServiceError(w, verr, "invalid end_date")
			return
		}
		filter.To = d
	}

	list, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.Logger.Error("ListTimesheets: failed", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err, "failed to list timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, toListResponse(list))
}

func toListResponse(list []*Timesheet) TimesheetsResponse {
	resp := TimesheetsResponse{Timesheets: make([]TimesheetResponse, 0, len(list))}
	for _, t := range list {
		resp.Timesheets = append(resp.Timesheets, t.ToResponse())
	}
	return resp
}
