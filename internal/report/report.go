package report

import "github.com/shopspring/decimal"

// Dashboard is the organisation-wide head count.
type Dashboard struct {
	TotalUsers    int64 `json:"total_users"`
	TotalProjects int64 `json:"total_projects"`
}

// ProjectHours is one user's all-time total on one project.
type ProjectHours struct {
	ProjectID int64           `db:"project_id"`
	Name      string          `db:"name"`
	FullName  string          `db:"full_name"`
	IsDefault bool            `db:"is_default"`
	Hours     decimal.Decimal `db:"hours"`
}

type ProjectShare struct {
	ProjectID  int64           `json:"project_id"`
	Name       string          `json:"name"`
	FullName   string          `json:"full_name"`
	Hours      decimal.Decimal `json:"hours"`
	Percentage decimal.Decimal `json:"percentage"`
	IsDefault  bool            `json:"is_default"`
}

type UserStats struct {
	TotalHours decimal.Decimal `json:"total_hours"`
	// ProjectsCount counts non-default projects only.
	ProjectsCount int            `json:"projects_count"`
	Projects      []ProjectShare `json:"projects"`
}
