package workday

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	workdayDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/workday"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

type RepositoryAPI interface {
	GetByDate(ctx context.Context, date time.Time) (*workdayDatamodel.WorkDay, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*workdayDatamodel.WorkDay, error)
	Upsert(ctx context.Context, day *workdayDatamodel.WorkDay) error
	Delete(ctx context.Context, date time.Time) error
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

// SetDayType stores a calendar exception. Setting WORK removes the exception
// so the store never holds a row equal to the default.
func (s *Service) SetDayType(ctx context.Context, actor *coreuser.Actor, dto SetWorkDayDTO) (*WorkDay, error) {
	if !actor.IsAdmin() {
		return nil, internal.NewForbiddenError("only administrators can edit the work calendar", internal.ErrCodeInsufficientRole)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	date, verr := validation.ParseDate("date", dto.Date)
	if verr != nil {
		return nil, verr
	}

	day := &WorkDay{Date: date, DayType: DayType(dto.DayType), Remark: dto.Remark}

	if day.DayType == DayTypeWork {
		if err := s.repo.Delete(ctx, date); err != nil {
			s.logger.Error("failed to delete calendar exception", "error", err, "date", dto.Date)
			return nil, internal.NewInternalError("failed to update work calendar", err)
		}
	} else {
		if err := s.repo.Upsert(ctx, ToDataModel(day)); err != nil {
			s.logger.Error("failed to store calendar exception", "error", err, "date", dto.Date)
			return nil, internal.NewInternalError("failed to update work calendar", err)
		}
	}

	s.logger.Info("work calendar updated", "date", dto.Date, "day_type", day.DayType, "actor_id", actor.ID)
	s.record(ctx, actor.ID, fmt.Sprintf("Set %s as %s", dto.Date, day.DayType))

	return day, nil
}

func (s *Service) ListExceptions(ctx context.Context, from, to time.Time) ([]*WorkDay, error) {
	rows, err := s.repo.ListBetween(ctx, Date(from), Date(to))
	if err != nil {
		s.logger.Error("failed to list calendar exceptions", "error", err)
		return nil, internal.NewInternalError("failed to list work days", err)
	}

	days := make([]*WorkDay, 0, len(rows))
	for _, row := range rows {
		days = append(days, FromDataModel(row))
	}
	return days, nil
}

func (s *Service) record(ctx context.Context, actorID int64, details string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewActivityRecordedEvent(actorID, "SET_WORKDAY", details)); err != nil {
		s.logger.Warn("failed to publish activity", "error", err)
	}
}
