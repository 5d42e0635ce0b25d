package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/timesheet-tracker/internal"
	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

type ListFilter struct {
	TeamLeaderID *int64
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, error)
	ListByTeamLeader(ctx context.Context, leaderID int64) ([]*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error

	AssignProject(ctx context.Context, userID, projectID int64) (bool, error)
	UnassignProject(ctx context.Context, userID, projectID int64) (bool, error)
	ListProjects(ctx context.Context, userID int64) ([]*projectDatamodel.Project, error)
}

type ProjectDirectory interface {
	GetByID(ctx context.Context, id int64) (*projectDatamodel.Project, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type Service struct {
	repo      RepositoryAPI
	projects  ProjectDirectory
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, projects ProjectDirectory, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Me(ctx context.Context, actor *coreuser.Actor) (*User, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}
	return s.load(ctx, actor.ID)
}

// List returns active users. Team leaders only see their direct reports.
func (s *Service) List(ctx context.Context, actor *coreuser.Actor) ([]*User, error) {
	if actor == nil {
		return nil, internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}

	var filter ListFilter
	if actor.IsTeamLeader() {
		id := actor.ID
		filter.TeamLeaderID = &id
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, r := range rows {
		users = append(users, FromDataModel(r))
	}
	return users, nil
}

func (s *Service) Create(ctx context.Context, actor *coreuser.Actor, dto CreateUserDTO) (*User, error) {
	if !actor.IsAdmin() && !actor.IsTeamLeader() {
		return nil, internal.NewForbiddenError("not authorized to create users", internal.ErrCodeInsufficientRole)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := coreuser.Role(dto.Role)
	if role == "" {
		role = coreuser.RoleEmployee
	}

	leaderID := dto.TeamLeaderID
	if actor.IsTeamLeader() {
		if role != coreuser.RoleEmployee {
			return nil, internal.NewForbiddenError("team leaders can only create employees", internal.ErrCodeRoleChangeDenied)
		}
		id := actor.ID
		leaderID = &id
	} else if leaderID != nil {
		if err := s.checkLeader(ctx, *leaderID); err != nil {
			return nil, err
		}
	}

	if err := s.checkUsernameFree(ctx, dto.Username, 0); err != nil {
		return nil, err
	}

	startDate, verr := parseOptionalDate("start_date", dto.StartDate)
	if verr != nil {
		return nil, verr
	}
	endDate, verr := parseOptionalDate("end_date", dto.EndDate)
	if verr != nil {
		return nil, verr
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u := &User{
		Username:     dto.Username,
		FullName:     dto.FullName,
		Email:        dto.Email,
		CostCenter:   dto.CostCenter,
		Remark:       dto.Remark,
		StartDate:    startDate,
		EndDate:      endDate,
		PasswordHash: hash,
		Role:         role,
		TeamLeaderID: leaderID,
	}

	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.record(ctx, actor.ID, ActionCreateUser, fmt.Sprintf("Created user %s", row.Username))
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, actor *coreuser.Actor, id int64, dto UpdateUserDTO) (*User, error) {
	if !actor.IsAdmin() && !actor.IsTeamLeader() {
		return nil, internal.NewForbiddenError("not authorized to edit users", internal.ErrCodeInsufficientRole)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.IsTeamLeader() {
		if err := authorizeLeaderEdit(actor, u, dto); err != nil {
			return nil, err
		}
	}

	if dto.TeamLeaderID.Set && dto.TeamLeaderID.Value != nil {
		if *dto.TeamLeaderID.Value == u.ID {
			return nil, internal.NewValidationError("a user cannot be their own team leader", internal.ErrCodeInvalidLeader)
		}
		if err := s.checkLeader(ctx, *dto.TeamLeaderID.Value); err != nil {
			return nil, err
		}
	}

	if dto.Username != nil && *dto.Username != u.Username {
		if err := s.checkUsernameFree(ctx, *dto.Username, u.ID); err != nil {
			return nil, err
		}
		u.Username = *dto.Username
	}
	if err := applyUpdate(u, dto); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.record(ctx, actor.ID, ActionUpdateUser, fmt.Sprintf("Updated user %s", u.Username))
	return u, nil
}

// authorizeLeaderEdit limits team leaders to their own employees, without
// promoting them or moving them to another team.
func authorizeLeaderEdit(actor *coreuser.Actor, target *User, dto UpdateUserDTO) error {
	if target.Role != coreuser.RoleEmployee {
		return internal.NewForbiddenError("team leaders can only edit employees", internal.ErrCodeInsufficientRole)
	}
	if !actor.Leads(target.Actor()) {
		return internal.NewForbiddenError("can only edit your own team members", internal.ErrCodeNotSubordinate)
	}
	if dto.Role != nil && coreuser.Role(*dto.Role) != coreuser.RoleEmployee {
		return internal.NewForbiddenError("team leaders cannot change user roles", internal.ErrCodeRoleChangeDenied)
	}
	if dto.TeamLeaderID.Set && (dto.TeamLeaderID.Value == nil || *dto.TeamLeaderID.Value != actor.ID) {
		return internal.NewForbiddenError("cannot transfer users out of team", internal.ErrCodeTeamTransferDenied)
	}
	return nil
}

func applyUpdate(u *User, dto UpdateUserDTO) *internal.AppError {
	if dto.FullName != nil {
		u.FullName = *dto.FullName
	}
	if dto.Email != nil {
		if *dto.Email == "" {
			u.Email = nil
		} else {
			email := *dto.Email
			u.Email = &email
		}
	}
	if dto.CostCenter != nil {
		u.CostCenter = *dto.CostCenter
	}
	if dto.Remark != nil {
		u.Remark = *dto.Remark
	}
	if dto.StartDate != nil {
		d, err := parseOptionalDate("start_date", *dto.StartDate)
		if err != nil {
			return err
		}
		u.StartDate = d
	}
	if dto.EndDate != nil {
		d, err := parseOptionalDate("end_date", *dto.EndDate)
		if err != nil {
			return err
		}
		u.EndDate = d
	}
	if dto.Role != nil {
		u.Role = coreuser.Role(*dto.Role)
	}
	if dto.TeamLeaderID.Set {
		u.TeamLeaderID = dto.TeamLeaderID.Value
	}
	return nil
}

// Delete soft-deletes a user; their timesheets stay in place.
func (s *Service) Delete(ctx context.Context, actor *coreuser.Actor, id int64) error {
	if !actor.IsAdmin() {
		return internal.NewForbiddenError("only administrators can delete users", internal.ErrCodeInsufficientRole)
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if u.ID == actor.ID {
		return internal.NewInvalidOperationError("cannot delete yourself", internal.ErrCodeCannotDeleteSelf)
	}

	u.IsDeleted = true
	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.record(ctx, actor.ID, ActionDeleteUser, fmt.Sprintf("Soft deleted user %s", u.Username))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, actor *coreuser.Actor, dto ChangePasswordDTO) error {
	if actor == nil {
		return internal.NewUnauthorizedError("authentication required", internal.ErrCodeInvalidToken)
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, dto.CurrentPassword); err != nil {
		return internal.NewValidationError("incorrect current password", internal.ErrCodeWrongPassword)
	}

	hash, err := s.hasher.Hash(dto.NewPassword)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return internal.NewInternalError("failed to change password", err)
	}
	u.PasswordHash = hash

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", u.ID)
		return internal.NewInternalError("failed to change password", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if row == nil || row.IsDeleted {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}
	return FromDataModel(row), nil
}

func (s *Service) checkLeader(ctx context.Context, leaderID int64) error {
	row, err := s.repo.GetByID(ctx, leaderID)
	if err != nil {
		s.logger.Error("failed to load team leader", "error", err, "team_leader_id", leaderID)
		return internal.NewInternalError("failed to load team leader", err)
	}
	if row == nil || row.IsDeleted || coreuser.Role(row.Role) != coreuser.RoleTeamLeader {
		return internal.NewValidationError("invalid team leader", internal.ErrCodeInvalidLeader)
	}
	return nil
}

// checkUsernameFree also sees soft-deleted users since the column is unique.
func (s *Service) checkUsernameFree(ctx context.Context, username string, selfID int64) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("failed to look up username", "error", err, "username", username)
		return internal.NewInternalError("failed to check username", err)
	}
	if existing != nil && existing.ID != selfID {
		return internal.NewConflictError("username already registered", internal.ErrCodeDuplicateUsername)
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
