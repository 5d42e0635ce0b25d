package timesheet

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"github.com/shopspring/decimal"
)

// editWindowWeeks is how many full weeks before the current one employees may
// still edit.
const editWindowWeeks = 2

type RepositoryAPI interface {
	WithinTransaction(ctx context.Context, fn func(tx TxRepository) error) error
	List(ctx context.Context, filter ListFilter) ([]*timesheetDatamodel.Timesheet, error)
}

// TxRepository is the set of operations available inside one storage
// transaction. Writes are visible to later reads on the same TxRepository.
type TxRepository interface {
	LockUser(ctx context.Context, userID int64) error
	FindByKey(ctx context.Context, userID, projectID int64, date time.Time) ([]*timesheetDatamodel.Timesheet, error)
	FindByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*timesheetDatamodel.Timesheet, error)
	SumHours(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, error)
	Create(ctx context.Context, t *timesheetDatamodel.Timesheet) error
	Update(ctx context.Context, t *timesheetDatamodel.Timesheet) error
	Delete(ctx context.Context, id int64) error
	MarkVerified(ctx context.Context, userID int64, date time.Time) (int64, error)
}

type CalendarAPI interface {
	Resolve(ctx context.Context, date time.Time) (workday.DayType, error)
	WeeklyLimit(ctx context.Context, date time.Time) (decimal.Decimal, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	ListByTeamLeader(ctx context.Context, leaderID int64) ([]*userDatamodel.User, error)
}

type ProjectDirectory interface {
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
}

type Option func(*Service)

// WithClock overrides the time source used for the edit window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	repo      RepositoryAPI
	calendar  CalendarAPI
	users     UserDirectory
	projects  ProjectDirectory
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, calendar CalendarAPI, users UserDirectory, projects ProjectDirectory, publisher events.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		calendar:  calendar,
		users:     users,
		projects:  projects,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// plannedWrite is an entry that passed every check that does not need the
// transaction.
type plannedWrite struct {
	entry       Entry
	projectName string
	weekStart   time.Time
	limit       decimal.Decimal
}

type writeResult struct {
	timesheet   *Timesheet
	projectName string
	created     bool
}

// Upsert creates or updates the single entry for (user, project, date).
func (s *Service) Upsert(ctx context.Context, actor *coreuser.Actor, entry Entry) (*Timesheet, error) {
	target, err := s.authorizeWrite(ctx, actor, entry.UserID)
	if err != nil {
		return nil, err
	}

	plan, err := s.plan(ctx, actor, target, entry, nil)
	if err != nil {
		return nil, err
	}

	var result *writeResult
	err = s.repo.WithinTransaction(ctx, func(tx TxRepository) error {
		if err := tx.LockUser(ctx, target.ID); err != nil {
			return err
		}
		var werr error
		result, werr = s.write(ctx, tx, actor, plan)
		return werr
	})
	if err != nil {
		return nil, s.transactionError(err, "failed to save timesheet", "user_id", entry.UserID, "project_id", entry.ProjectID)
	}

	s.publishUpserted(ctx, actor, result)
	return result.timesheet, nil
}

// authorizeWrite applies the role gate and returns the owner of the entries.
func (s *Service) authorizeWrite(ctx context.Context, actor *coreuser.Actor, userID int64) (*coreuser.Actor, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	target, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if target.IsAdmin() {
		return nil, internal.NewForbiddenError("administrators cannot own timesheet entries", internal.ErrCodeAdminCannotLog)
	}

	switch actor.Role {
	case coreuser.RoleEmployee:
		if target.ID != actor.ID {
			return nil, internal.NewForbiddenError("employees can only log their own hours", internal.ErrCodeNotOwner)
		}
	case coreuser.RoleTeamLeader:
		if target.ID != actor.ID && !actor.Leads(target) {
			return nil, internal.NewForbiddenError("not your subordinate", internal.ErrCodeNotSubordinate)
		}
	case coreuser.RoleAdmin:
	default:
		return nil, internal.NewForbiddenError("unknown role", internal.ErrCodeInsufficientRole)
	}

	return target, nil
}

func (s *Service) lookupUser(ctx context.Context, userID int64) (*coreuser.Actor, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil || u.IsDeleted {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return coreuser.ActorFromModel(u), nil
}

// plan normalises verify and runs the read-only calendar checks. limits caches
// weekly limits within a single call.
func (s *Service) plan(ctx context.Context, actor, target *coreuser.Actor, entry Entry, limits map[time.Time]decimal.Decimal) (*plannedWrite, error) {
	entry.Date = workday.Date(entry.Date)

	// Entries owned by a team leader are always verified, whoever writes them.
	switch {
	case actor.IsEmployee():
		entry.Verify = false
	case target.IsTeamLeader():
		entry.Verify = true
	}

	project, err := s.projects.GetByID(ctx, entry.ProjectID)
	if err != nil {
		s.logger.Error("failed to load project", "error", err, "project_id", entry.ProjectID)
		return nil, internal.NewInternalError("failed to load project", err)
	}
	if project == nil || project.IsDeleted {
		return nil, internal.NewNotFoundError("project not found", internal.ErrCodeProjectNotFound)
	}

	dayType, err := s.calendar.Resolve(ctx, entry.Date)
	if err != nil {
		s.logger.Error("failed to resolve calendar", "error", err, "date", entry.Date)
		return nil, internal.NewInternalError("failed to resolve work calendar", err)
	}
	if dayType == workday.DayTypeOff {
		return nil, internal.NewInvalidOperationError("cannot log hours on an off day", internal.ErrCodeOffDay)
	}

	weekStart := workday.WeekStart(entry.Date)
	limit, ok := limits[weekStart]
	if !ok {
		limit, err = s.calendar.WeeklyLimit(ctx, weekStart)
		if err != nil {
			s.logger.Error("failed to compute weekly limit", "error", err, "week_start", weekStart)
			return nil, internal.NewInternalError("failed to compute weekly limit", err)
		}
		if limits != nil {
			limits[weekStart] = limit
		}
	}

	return &plannedWrite{
		entry:       entry,
		projectName: project.Name,
		weekStart:   weekStart,
		limit:       limit,
	}, nil
}

// write runs the transactional checks and persists one planned entry.
func (s *Service) write(ctx context.Context, tx TxRepository, actor *coreuser.Actor, p *plannedWrite) (*writeResult, error) {
	entry := p.entry

	existing, err := tx.FindByKey(ctx, entry.UserID, entry.ProjectID, entry.Date)
	if err != nil {
		return nil, err
	}

	weekTotal, err := tx.SumHours(ctx, entry.UserID, p.weekStart, p.weekStart.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	current := weekTotal
	for _, row := range existing {
		current = current.Sub(row.Hours)
	}
	current = current.Round(2)
	if current.Add(entry.Hours).GreaterThan(p.limit) {
		return nil, internal.NewLimitExceededError(p.limit, current, entry.Hours)
	}

	if actor.IsEmployee() && entry.Date.Before(s.editCutoff()) {
		return nil, internal.NewForbiddenError("edit window closed for this date", internal.ErrCodeEditWindowClosed)
	}

	if actor.IsEmployee() {
		for _, row := range existing {
			if row.Verify {
				return nil, internal.NewForbiddenError("cannot modify a verified entry", internal.ErrCodeEntryVerified)
			}
		}
	}

	now := s.now()

	if len(existing) == 0 {
		row := &timesheetDatamodel.Timesheet{
			UserID:    entry.UserID,
			ProjectID: entry.ProjectID,
			Date:      entry.Date,
			Hours:     entry.Hours,
			Verify:    entry.Verify,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(ctx, row); err != nil {
			return nil, err
		}
		return &writeResult{timesheet: FromDataModel(row), projectName: p.projectName, created: true}, nil
	}

	kept := existing[0]
	for _, dup := range existing[1:] {
		s.logger.Warn("removing duplicate timesheet row",
			"kept_id", kept.ID,
			"duplicate_id", dup.ID,
			"user_id", entry.UserID,
			"project_id", entry.ProjectID,
			"date", entry.Date.Format("2006-01-02"))
		if err := tx.Delete(ctx, dup.ID); err != nil {
			return nil, err
		}
	}

	kept.Hours = entry.Hours
	if !actor.IsEmployee() {
		kept.Verify = entry.Verify
	}
	kept.UpdatedAt = now
	if err := tx.Update(ctx, kept); err != nil {
		return nil, err
	}
	return &writeResult{timesheet: FromDataModel(kept), projectName: p.projectName}, nil
}

// editCutoff is the Monday two weeks before the current week.
func (s *Service) editCutoff() time.Time {
	return workday.WeekStart(s.now()).AddDate(0, 0, -7*editWindowWeeks)
}

func (s *Service) transactionError(err error, message string, args ...any) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(message, append([]any{"error", err}, args...)...)
	return internal.NewInternalError(message, err)
}

func (s *Service) publishUpserted(ctx context.Context, actor *coreuser.Actor, r *writeResult) {
	if s.publisher == nil || r == nil {
		return
	}
	t := r.timesheet
	event := events.NewTimesheetUpsertedEvent(actor.ID, t.ID, t.UserID, t.ProjectID, r.projectName, t.Hours, t.Date, r.created)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish timesheet event", "error", err, "timesheet_id", t.ID)
	}
}

// List returns entries visible to the actor. Employees see their own entries,
// team leaders their own and their direct reports', admins everything.
func (s *Service) List(ctx context.Context, actor *coreuser.Actor, filter ListFilter) ([]*Timesheet, error) {
	switch actor.Role {
	case coreuser.RoleEmployee:
		if len(filter.UserIDs) > 0 && (len(filter.UserIDs) != 1 || filter.UserIDs[0] != actor.ID) {
			return nil, internal.NewForbiddenError("employees can only view their own timesheets", internal.ErrCodeNotOwner)
		}
		filter.UserIDs = []int64{actor.ID}
	case coreuser.RoleTeamLeader:
		team, err := s.users.ListByTeamLeader(ctx, actor.ID)
		if err != nil {
			s.logger.Error("failed to load team", "error", err, "leader_id", actor.ID)
			return nil, internal.NewInternalError("failed to load team", err)
		}
		visible := map[int64]bool{actor.ID: true}
		for _, member := range team {
			visible[member.ID] = true
		}
		if len(filter.UserIDs) == 0 {
			for id := range visible {
				filter.UserIDs = append(filter.UserIDs, id)
			}
		}
		for _, id := range filter.UserIDs {
			if !visible[id] {
				return nil, internal.NewForbiddenError("not your subordinate", internal.ErrCodeNotSubordinate)
			}
		}
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err)
		return nil, internal.NewInternalError("failed to list timesheets", err)
	}

	result := make([]*Timesheet, 0, len(rows))
	for _, row := range rows {
		result = append(result, FromDataModel(row))
	}
	return result, nil
}
