package user

import (
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

const (
	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"

	ActionAssignProject   = "ASSIGN_PROJECT"
	ActionUnassignProject = "UNASSIGN_PROJECT"
	ActionUpdateManager   = "UPDATE_MANAGER"
)

type User struct {
	ID           int64
	Username     string
	FullName     string
	Email        *string
	CostCenter   string
	Remark       string
	StartDate    *time.Time
	EndDate      *time.Time
	PasswordHash string
	Role         coreuser.Role
	TeamLeaderID *int64
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) Actor() *coreuser.Actor {
	return &coreuser.Actor{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		TeamLeaderID: u.TeamLeaderID,
	}
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		CostCenter:   u.CostCenter,
		Remark:       u.Remark,
		StartDate:    formatDate(u.StartDate),
		EndDate:      formatDate(u.EndDate),
		Role:         string(u.Role),
		TeamLeaderID: u.TeamLeaderID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(validation.DateLayout)
	return &s
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		CostCenter:   u.CostCenter,
		Remark:       u.Remark,
		StartDate:    u.StartDate,
		EndDate:      u.EndDate,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		TeamLeaderID: u.TeamLeaderID,
		IsDeleted:    u.IsDeleted,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Email:        u.Email,
		CostCenter:   u.CostCenter,
		Remark:       u.Remark,
		StartDate:    u.StartDate,
		EndDate:      u.EndDate,
		PasswordHash: u.PasswordHash,
		Role:         coreuser.Role(u.Role),
		TeamLeaderID: u.TeamLeaderID,
		IsDeleted:    u.IsDeleted,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
