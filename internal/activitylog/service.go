package activitylog

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/timesheet-tracker/internal"
	activitylogDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/activitylog"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type RepositoryAPI interface {
	Create(ctx context.Context, log *activitylogDatamodel.ActivityLog) error
	// List returns entries newest first, joined with the acting username.
	List(ctx context.Context, offset, limit int) ([]*activitylogDatamodel.Entry, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Record(ctx context.Context, entry *ActivityLog) error {
	if err := s.repo.Create(ctx, ToDataModel(entry)); err != nil {
		s.logger.Error("failed to store activity log", "error", err, "action", entry.Action, "user_id", entry.UserID)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]*ActivityLog, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("failed to list activity logs", "error", err)
		return nil, internal.NewInternalError("failed to list activity logs", err)
	}

	logs := make([]*ActivityLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, FromEntry(row))
	}
	return logs, nil
}
