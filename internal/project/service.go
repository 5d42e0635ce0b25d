package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
	GetByName(ctx context.Context, name string) (*projectDatamodel.Project, error)
	List(ctx context.Context, offset, limit int) ([]*projectDatamodel.Project, error)
	Create(ctx context.Context, p *projectDatamodel.Project) error
	Update(ctx context.Context, p *projectDatamodel.Project) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns active projects in id order. Everyone may read them.
func (s *Service) List(ctx context.Context, offset, limit int) ([]*Project, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		return nil, internal.NewInternalError("failed to list projects", err)
	}

	projects := make([]*Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, FromDataModel(r))
	}
	return projects, nil
}

func (s *Service) Create(ctx context.Context, actor *coreuser.Actor, dto CreateProjectDTO) (*Project, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only administrators can manage projects", internal.ErrCodeInsufficientRole)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, dto.Name, 0); err != nil {
		return nil, err
	}

	startDate, verr := parseOptionalDate("start_date", dto.StartDate)
	if verr != nil {
		return nil, verr
	}
	closeDate, verr := parseOptionalDate("planned_close_date", dto.PlannedCloseDate)
	if verr != nil {
		return nil, verr
	}

	status := Status(dto.Status)
	if status == "" {
		status = StatusNotStart
	}

	row := ToDataModel(&Project{
		Name:             dto.Name,
		FullName:         dto.FullName,
		CustomID:         dto.CustomID,
		Status:           status,
		StartDate:        startDate,
		PlannedCloseDate: closeDate,
		Description:      dto.Description,
		IsDefault:        dto.IsDefault,
	})
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create project", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("failed to create project", err)
	}

	s.record(ctx, actor.ID, ActionCreateProject, fmt.Sprintf("Created project %s", row.Name))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor *coreuser.Actor, id int64, dto UpdateProjectDTO) (*Project, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only administrators can manage projects", internal.ErrCodeInsufficientRole)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil && *dto.Name != p.Name {
		if err := s.checkNameFree(ctx, *dto.Name, p.ID); err != nil {
			return nil, err
		}
		p.Name = *dto.Name
	}
	if dto.FullName != nil {
		p.FullName = *dto.FullName
	}
	if dto.CustomID != nil {
		p.CustomID = *dto.CustomID
	}
	if dto.Status != nil {
		p.Status = Status(*dto.Status)
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.StartDate != nil {
		d, verr := parseOptionalDate("start_date", *dto.StartDate)
		if verr != nil {
			return nil, verr
		}
		p.StartDate = d
	}
	if dto.PlannedCloseDate != nil {
		d, verr := parseOptionalDate("planned_close_date", *dto.PlannedCloseDate)
		if verr != nil {
			return nil, verr
		}
		p.PlannedCloseDate = d
	}

	if err := s.repo.Update(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, internal.NewInternalError("failed to update project", err)
	}

	s.record(ctx, actor.ID, ActionUpdateProject, fmt.Sprintf("Updated project %s", p.Name))
	return p, nil
}

// Delete soft-deletes a project. Default projects are always kept.
func (s *Service) Delete(ctx context.Context, actor *coreuser.Actor, id int64) error {
	if !actor.IsAdmin() {
		return internal.NewForbiddenError("only administrators can manage projects", internal.ErrCodeInsufficientRole)
	}

	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDefault {
		return internal.NewInvalidOperationError("cannot delete default projects", internal.ErrCodeDefaultProject)
	}

	p.IsDeleted = true
	if err := s.repo.Update(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return internal.NewInternalError("failed to delete project", err)
	}

	s.record(ctx, actor.ID, ActionDeleteProject, fmt.Sprintf("Soft deleted project %s", p.Name))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*Project, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load project", "error", err, "project_id", id)
		return nil, internal.NewInternalError("failed to load project", err)
	}
	if row == nil || row.IsDeleted {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeProjectNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) checkNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to look up project name", "error", err, "name", name)
		return internal.NewInternalError("failed to check project name", err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.NewConflictError("project already exists", internal.ErrCodeDuplicateProject)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action, details string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewActivityRecordedEvent(actorID, action, details)); err != nil {
		s.logger.Warn("failed to publish activity", "error", err, "action", action)
	}
}
