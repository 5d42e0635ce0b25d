package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/timesheet-tracker/internal/report"
	"github.com/jmoiron/sqlx"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE is_deleted = ?`), false); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *ReportRepository) CountCustomProjects(ctx context.Context) (int64, error) {
	var n int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM projects WHERE is_deleted = ? AND is_default = ?`)
	if err := r.db.GetContext(ctx, &n, query, false, false); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// ProjectHoursForUser also counts hours on soft-deleted projects.
func (r *ReportRepository) ProjectHoursForUser(ctx context.Context, userID int64) ([]report.ProjectHours, error) {
	query := r.db.Rebind(`
SELECT p.id AS project_id, p.name, COALESCE(p.full_name, '') AS full_name, p.is_default, SUM(t.hours) AS hours
FROM timesheets t
JOIN projects p ON p.id = t.project_id
WHERE t.user_id = ?
GROUP BY p.id, p.name, p.full_name, p.is_default
ORDER BY p.id`)

	var out []report.ProjectHours
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("project hours for user: %w", err)
	}
	return out, nil
}
