package compliance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	RunTimesheetCheck(ctx context.Context) (*Result, error)
	RunApprovalCheck(ctx context.Context) (*Result, error)
	CheckUser(ctx context.Context, userID int64) (*Status, error)
	PendingApprovals(ctx context.Context, actor *coreuser.Actor) (*PendingApprovals, error)
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

// RunTimesheetCheck handles POST /compliance/timesheets
func (h *Handler) RunTimesheetCheck(w http.ResponseWriter, r *http.Request) {
	h.runCheck(w, r, h.Service.RunTimesheetCheck)
}

// RunApprovalCheck handles POST /compliance/approvals
func (h *Handler) RunApprovalCheck(w http.ResponseWriter, r *http.Request) {
	h.runCheck(w, r, h.Service.RunApprovalCheck)
}

func (h *Handler) runCheck(w http.ResponseWriter, r *http.Request, run func(context.Context) (*Result, error)) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !actor.IsAdmin() {
		h.HandleServiceError(w, internal.NewForbiddenError("only administrators can run compliance checks", internal.ErrCodeInsufficientRole), "forbidden")
		return
	}

	result, err := run(r.Context())
	if err != nil {
		h.HandleServiceError(w, err, "compliance check failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// MyCompliance handles GET /users/me/compliance
func (h *Handler) MyCompliance(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.Service.CheckUser(r.Context(), actor.ID)
	if err != nil {
		h.HandleServiceError(w, err, "failed to check compliance")
		return
	}

	h.WriteJSON(w, http.StatusOK, status)
}

// MyPendingApprovals handles GET /users/me/pending-approvals
func (h *Handler) MyPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pending, err := h.Service.PendingApprovals(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err, "failed to check pending approvals")
		return
	}

	h.WriteJSON(w, http.StatusOK, pending)
}
