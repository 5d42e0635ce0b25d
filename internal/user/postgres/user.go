package postgres

import (
	"context"
	"errors"

	projectDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-tracker/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.RepositoryAPI = (*UserRepository)(nil)

// GetByID includes soft-deleted users; callers decide how to treat them.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*userDatamodel.User, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if filter.TeamLeaderID != nil {
		q = q.Where("team_leader_id = ?", *filter.TeamLeaderID)
	}

	var users []*userDatamodel.User
	err := q.Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByTeamLeader(ctx context.Context, leaderID int64) ([]*userDatamodel.User, error) {
	return r.List(ctx, user.ListFilter{TeamLeaderID: &leaderID})
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Update writes every column so nil pointers and false flags are persisted.
func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Model(u).Select(
		"username", "full_name", "email", "cost_center", "remark", "start_date", "end_date",
		"password_hash", "role", "team_leader_id", "is_deleted", "updated_at",
	).Updates(u).Error
}

// AssignProject reports false when the link already existed.
func (r *UserRepository) AssignProject(ctx context.Context, userID, projectID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&userDatamodel.UserProject{UserID: userID, ProjectID: projectID})
	return res.RowsAffected > 0, res.Error
}

// UnassignProject reports false when there was no link to remove.
func (r *UserRepository) UnassignProject(ctx context.Context, userID, projectID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&userDatamodel.UserProject{})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepository) ListProjects(ctx context.Context, userID int64) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN user_projects ON user_projects.project_id = projects.id").
		Where("user_projects.user_id = ? AND projects.is_deleted = ?", userID, false).
		Order("projects.name ASC").
		Find(&projects).Error
	return projects, err
}
