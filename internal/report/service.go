package report

import (
	"context"
	"log/slog"
	"sort"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	CountActiveUsers(ctx context.Context) (int64, error)
	CountCustomProjects(ctx context.Context) (int64, error)
	ProjectHoursForUser(ctx context.Context, userID int64) ([]ProjectHours, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Dashboard counts active users and active non-default projects.
func (s *Service) Dashboard(ctx context.Context, actor *coreuser.Actor) (*Dashboard, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only administrators can view dashboard stats", internal.ErrCodeInsufficientRole)
	}

	users, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		s.logger.Error("failed to count users", "error", err)
		return nil, internal.NewInternalError("failed to load stats", err)
	}
	projects, err := s.repo.CountCustomProjects(ctx)
	if err != nil {
		s.logger.Error("failed to count projects", "error", err)
		return nil, internal.NewInternalError("failed to load stats", err)
	}
	return &Dashboard{TotalUsers: users, TotalProjects: projects}, nil
}

// UserStats breaks the caller's logged hours down by project, largest first.
func (s *Service) UserStats(ctx context.Context, actor *coreuser.Actor) (*UserStats, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	rows, err := s.repo.ProjectHoursForUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to load project hours", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to load stats", err)
	}

	stats := &UserStats{TotalHours: decimal.Zero, Projects: make([]ProjectShare, 0, len(rows))}
	for _, r := range rows {
		stats.TotalHours = stats.TotalHours.Add(r.Hours)
	}

	hundred := decimal.NewFromInt(100)
	for _, r := range rows {
		pct := decimal.Zero
		if stats.TotalHours.IsPositive() {
			pct = r.Hours.Mul(hundred).Div(stats.TotalHours).Round(1)
		}
		stats.Projects = append(stats.Projects, ProjectShare{
			ProjectID:  r.ProjectID,
			Name:       r.Name,
			FullName:   r.FullName,
			Hours:      r.Hours,
			Percentage: pct,
			IsDefault:  r.IsDefault,
		})
		if !r.IsDefault {
			stats.ProjectsCount++
		}
	}

	sort.SliceStable(stats.Projects, func(i, j int) bool {
		return stats.Projects[i].Hours.GreaterThan(stats.Projects[j].Hours)
	})
	return stats, nil
}
