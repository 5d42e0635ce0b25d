package user

import (
	"context"
	"fmt"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

// authorizeAssignment admits admins and the target's own team leader.
func authorizeAssignment(actor *coreuser.Actor, target *User) error {
	if actor.IsAdmin() || actor.Leads(target.Actor()) {
		return nil
	}
	return internal.NewForbiddenError("not authorized to manage projects for this user", internal.ErrCodeNotSubordinate)
}

// AssignProject links a project to a user. It reports false when the
// link already existed, which is not an error.
func (s *Service) AssignProject(ctx context.Context, actor *coreuser.Actor, userID, projectID int64) (bool, error) {
	if actor == nil {
		return false, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	p, err := s.loadProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	if err := authorizeAssignment(actor, u); err != nil {
		return false, err
	}

	created, err := s.repo.AssignProject(ctx, u.ID, p.ID)
	if err != nil {
		s.logger.Error("failed to assign project", "error", err, "user_id", u.ID, "project_id", p.ID)
		return false, internal.NewInternalError("failed to assign project", err)
	}
	if !created {
		return false, nil
	}

	s.record(ctx, actor.ID, ActionAssignProject, fmt.Sprintf("Assigned project %s to %s", p.Name, u.Username))
	return true, nil
}

func (s *Service) UnassignProject(ctx context.Context, actor *coreuser.Actor, userID, projectID int64) error {
	if actor == nil {
		return internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := authorizeAssignment(actor, u); err != nil {
		return err
	}

	removed, err := s.repo.UnassignProject(ctx, u.ID, projectID)
	if err != nil {
		s.logger.Error("failed to unassign project", "error", err, "user_id", u.ID, "project_id", projectID)
		return internal.NewInternalError("failed to unassign project", err)
	}
	if !removed {
		return internal.NewNotFoundError("assignment not found", internal.ErrCodeAssignmentNotFound)
	}

	name := fmt.Sprintf("#%d", projectID)
	if p, err := s.projects.GetByID(ctx, projectID); err == nil && p != nil {
		name = p.Name
	}
	s.record(ctx, actor.ID, ActionUnassignProject, fmt.Sprintf("Unassigned project %s from %s", name, u.Username))
	return nil
}

// Projects lists a user's assigned projects to the user, their team leader
// and admins.
func (s *Service) Projects(ctx context.Context, actor *coreuser.Actor, userID int64) ([]*projectDatamodel.Project, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor.ID != u.ID {
		if err := authorizeAssignment(actor, u); err != nil {
			return nil, internal.NewForbiddenError("not authorized to view these projects", internal.ErrCodeNotSubordinate)
		}
	}

	projects, err := s.repo.ListProjects(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to list user projects", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to list user projects", err)
	}
	return projects, nil
}

// TransferManager moves a user under another team leader. Admins may move
// anyone; a team leader may move their own reports or pick a manager for
// themselves.
func (s *Service) TransferManager(ctx context.Context, actor *coreuser.Actor, userID int64, dto ManagerUpdateDTO) (*User, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	manager, err := s.load(ctx, dto.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager.Role != coreuser.RoleTeamLeader {
		return nil, internal.NewValidationError("selected user is not a team leader", internal.ErrCodeInvalidLeader)
	}

	self := actor.ID == u.ID && actor.IsTeamLeader()
	if !actor.IsAdmin() && !self && !actor.Leads(u.Actor()) {
		return nil, internal.NewForbiddenError("not authorized to assign a manager for this user", internal.ErrCodeTeamTransferDenied)
	}

	if manager.ID == u.ID {
		return nil, internal.NewValidationError("a user cannot be their own team leader", internal.ErrCodeInvalidLeader)
	}
	if manager.TeamLeaderID != nil && *manager.TeamLeaderID == u.ID {
		return nil, internal.NewValidationError("team leader already reports to this user", internal.ErrCodeInvalidLeader)
	}

	previous := "none"
	if u.TeamLeaderID != nil {
		previous = fmt.Sprintf("ID %d", *u.TeamLeaderID)
	}

	id := manager.ID
	u.TeamLeaderID = &id
	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to update manager", "error", err, "user_id", u.ID, "manager_id", manager.ID)
		return nil, internal.NewInternalError("failed to update manager", err)
	}

	s.record(ctx, actor.ID, ActionUpdateManager,
		fmt.Sprintf("Changed manager for %s from %s to %s", u.Username, previous, manager.Username))
	return u, nil
}

func (s *Service) loadProject(ctx context.Context, id int64) (*projectDatamodel.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load project", "error", err, "project_id", id)
		return nil, internal.NewInternalError("failed to load project", err)
	}
	if p == nil || p.IsDeleted {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeProjectNotFound)
	}
	return p, nil
}
