package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/project"
	"github.com/frahmantamala/timesheet-tracker/internal/transport"
)

type ServiceAPI interface {
	Me(ctx context.Context, actor *coreuser.Actor) (*User, error)
	List(ctx context.Context, actor *coreuser.Actor) ([]*User, error)
	Create(ctx context.Context, actor *coreuser.Actor, dto CreateUserDTO) (*User, error)
	Update(ctx context.Context, actor *coreuser.Actor, id int64, dto UpdateUserDTO) (*User, error)
	Delete(ctx context.Context, actor *coreuser.Actor, id int64) error
	ChangePassword(ctx context.Context, actor *coreuser.Actor, dto ChangePasswordDTO) error
	AssignProject(ctx context.Context, actor *coreuser.Actor, userID, projectID int64) (bool, error)
	UnassignProject(ctx context.Context, actor *coreuser.Actor, userID, projectID int64) error
	Projects(ctx context.Context, actor *coreuser.Actor, userID int64) ([]*projectDatamodel.Project, error)
	TransferManager(ctx context.Context, actor *coreuser.Actor, userID int64, dto ManagerUpdateDTO) (*User, error)
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

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.Me(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err, "failed to load user")
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err, "failed to list users")
		return
	}

	resp := UsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, u.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateUser: failed to create user", "error", err, "username", dto.Username)
		h.HandleServiceError(w, err, "failed to create user")
		return
	}

	h.WriteJSON(w, http.StatusCreated, u.ToResponse())
}

// UpdateUser handles PUT /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid user id")
		return
	}

	var dto UpdateUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.Update(r.Context(), actor, id, dto)
	if err != nil {
		h.Logger.Error("UpdateUser: failed to update user", "error", err, "user_id", id)
		h.HandleServiceError(w, err, "failed to update user")
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid user id")
		return
	}

	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err, "failed to delete user")
		return
	}

	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// ChangePassword handles PUT /users/me/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ChangePasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := h.Service.ChangePassword(r.Context(), actor, dto); err != nil {
		h.HandleServiceError(w, err, "failed to change password")
		return
	}

	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// userAndProject reads the {id} and {pid} path parameters.
func (h *Handler) userAndProject(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid user id")
		return 0, 0, false
	}
	projectID, verr := transport.PathID(r, "pid")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid project id")
		return 0, 0, false
	}
	return userID, projectID, true
}

// AssignProject handles POST /users/{id}/projects/{pid}
func (h *Handler) AssignProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, projectID, ok := h.userAndProject(w, r)
	if !ok {
		return
	}

	created, err := h.Service.AssignProject(r.Context(), actor, userID, projectID)
	if err != nil {
		h.HandleServiceError(w, err, "failed to assign project")
		return
	}

	resp := OKResponse{OK: true}
	if !created {
		resp.Message = "Already assigned"
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// UnassignProject handles DELETE /users/{id}/projects/{pid}
func (h *Handler) UnassignProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, projectID, ok := h.userAndProject(w, r)
	if !ok {
		return
	}

	if err := h.Service.UnassignProject(r.Context(), actor, userID, projectID); err != nil {
		h.HandleServiceError(w, err, "failed to unassign project")
		return
	}

	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// ListUserProjects handles GET /users/{id}/projects
func (h *Handler) ListUserProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid user id")
		return
	}

	rows, err := h.Service.Projects(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err, "failed to list user projects")
		return
	}

	resp := project.ProjectsResponse{Projects: make([]project.ProjectResponse, 0, len(rows))}
	for _, row := range rows {
		resp.Projects = append(resp.Projects, project.FromDataModel(row).ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// UpdateManager handles PUT /users/{id}/manager
func (h *Handler) UpdateManager(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, verr := transport.PathID(r, "id")
	if verr != nil {
		h.HandleServiceError(w, verr, "invalid user id")
		return
	}

	var dto ManagerUpdateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.TransferManager(r.Context(), actor, id, dto)
	if err != nil {
		h.Logger.Error("UpdateManager: failed to transfer user", "error", err, "user_id", id, "manager_id", dto.ManagerID)
		h.HandleServiceError(w, err, "failed to update manager")
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}
