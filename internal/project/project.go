package project

import (
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
)

type Status string

const (
	StatusRun      Status = "RUN"
	StatusClose    Status = "CLOSE"
	StatusNotStart Status = "NOT START"
)

const (
	ActionCreateProject = "CREATE_PROJECT"
	ActionUpdateProject = "UPDATE_PROJECT"
	ActionDeleteProject = "DELETE_PROJECT"
)

type Project struct {
	ID               int64
	Name             string
	FullName         string
	CustomID         string
	Status           Status
	StartDate        *time.Time
	PlannedCloseDate *time.Time
	Description      string
	IsDefault        bool
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:               p.ID,
		Name:             p.Name,
		FullName:         p.FullName,
		CustomID:         p.CustomID,
		Status:           string(p.Status),
		StartDate:        formatDate(p.StartDate),
		PlannedCloseDate: formatDate(p.PlannedCloseDate),
		Description:      p.Description,
		IsDefault:        p.IsDefault,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:               p.ID,
		Name:             p.Name,
		FullName:         p.FullName,
		CustomID:         p.CustomID,
		Status:           string(p.Status),
		StartDate:        p.StartDate,
		PlannedCloseDate: p.PlannedCloseDate,
		Description:      p.Description,
		IsDefault:        p.IsDefault,
		IsDeleted:        p.IsDeleted,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:               p.ID,
		Name:             p.Name,
		FullName:         p.FullName,
		CustomID:         p.CustomID,
		Status:           Status(p.Status),
		StartDate:        p.StartDate,
		PlannedCloseDate: p.PlannedCloseDate,
		Description:      p.Description,
		IsDefault:        p.IsDefault,
		IsDeleted:        p.IsDeleted,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
