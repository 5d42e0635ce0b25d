package project

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, offset, limit int) ([]*Project, error)
	Create(ctx context.Context, actor *coreuser.Actor, dto CreateProjectDTO) (*Project, error)
	Update(ctx context.Context, actor *coreuser.Actor, id int64, dto UpdateProjectDTO) (*Project, error)
	Delete(ctx context.Context, actor *coreuser.Actor, id int64) error
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

// ListProjects handles GET /projects?skip=&limit=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	offset := transport.QueryInt(r, "skip", 0)
	limit := transport.QueryInt(r, "limit", defaultListLimit)

	projects, err := h.Service.List(r.Context(), offset, limit)
	if err != nil {
		h.HandleServiceError(w, err, "failed to list projects")
		return
	}

	resp := ProjectsResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, p.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateProject handles POST /projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateProjectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateProject: failed to create project", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err, "failed to create project")
		return
	}

	h.WriteJSON(w, http.StatusCreated, p.ToResponse())
}

// UpdateProject handles PUT /projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid project id")
		return
	}

	var dto UpdateProjectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err, "failed to update project")
		return
	}

	h.WriteJSON(w, http.StatusOK, p.ToResponse())
}

// DeleteProject handles DELETE /projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid project id")
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err, "failed to delete project")
		return
	}

	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}
