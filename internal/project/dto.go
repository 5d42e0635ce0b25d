package project

import (
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
)

var statuses = []string{string(StatusRun), string(StatusClose), string(StatusNotStart)}

type CreateProjectDTO struct {
	Name             string `json:"name"`
	FullName         string `json:"full_name"`
	CustomID         string `json:"custom_id"`
	Status           string `json:"status"`
	StartDate        string `json:"start_date"`
	PlannedCloseDate string `json:"planned_close_date"`
	Description      string `json:"description"`
	IsDefault        bool   `json:"is_default"`
}

func (d CreateProjectDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("full_name", d.FullName).MaxLength(255)
	v.Field("custom_id", d.CustomID).MaxLength(50)
	v.Field("status", d.Status).OneOf(statuses...)
	v.Field("start_date", d.StartDate).Date()
	v.Field("planned_close_date", d.PlannedCloseDate).Date()
	return v.Validate()
}

// UpdateProjectDTO is a partial update; the default flag is fixed at creation.
type UpdateProjectDTO struct {
	Name             *string `json:"name"`
	FullName         *string `json:"full_name"`
	CustomID         *string `json:"custom_id"`
	Status           *string `json:"status"`
	StartDate        *string `json:"start_date"`
	PlannedCloseDate *string `json:"planned_close_date"`
	Description      *string `json:"description"`
}

func (d UpdateProjectDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(100)
	}
	if d.FullName != nil {
		v.Field("full_name", *d.FullName).MaxLength(255)
	}
	if d.CustomID != nil {
		v.Field("custom_id", *d.CustomID).MaxLength(50)
	}
	if d.Status != nil {
		v.Field("status", *d.Status).Required().OneOf(statuses...)
	}
	if d.StartDate != nil {
		v.Field("start_date", *d.StartDate).Date()
	}
	if d.PlannedCloseDate != nil {
		v.Field("planned_close_date", *d.PlannedCloseDate).Date()
	}
	return v.Validate()
}

func parseOptionalDate(field, value string) (*time.Time, *internal.AppError) {
	if value == "" {
		return nil, nil
	}
	t, err := validation.ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ProjectResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	FullName         string    `json:"full_name"`
	CustomID         string    `json:"custom_id"`
	Status           string    `json:"status"`
	StartDate        *string   `json:"start_date"`
	PlannedCloseDate *string   `json:"planned_close_date"`
	Description      string    `json:"description"`
	IsDefault        bool      `json:"is_default"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
