package user

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 16
)

var roles = []string{string(coreuser.RoleEmployee), string(coreuser.RoleTeamLeader), string(coreuser.RoleAdmin)}

// OptionalID tells an absent JSON field apart from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

type CreateUserDTO struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	FullName     string  `json:"full_name"`
	Email        *string `json:"email"`
	CostCenter   string  `json:"cost_center"`
	Remark       string  `json:"remark"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Role         string  `json:"role"`
	TeamLeaderID *int64  `json:"team_leader_id"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(50)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength).MaxLength(maxPasswordLength)
	v.Field("full_name", d.FullName).MaxLength(100)
	v.Field("email", d.Email).Custom(emailAddress("email"))
	v.Field("start_date", d.StartDate).Date()
	v.Field("end_date", d.EndDate).Date()
	v.Field("role", d.Role).OneOf(roles...)
	return v.Validate()
}

// UpdateUserDTO is a partial update: nil fields are left unchanged.
type UpdateUserDTO struct {
	Username     *string    `json:"username"`
	FullName     *string    `json:"full_name"`
	Email        *string    `json:"email"`
	CostCenter   *string    `json:"cost_center"`
	Remark       *string    `json:"remark"`
	StartDate    *string    `json:"start_date"`
	EndDate      *string    `json:"end_date"`
	Role         *string    `json:"role"`
	TeamLeaderID OptionalID `json:"team_leader_id"`
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Username != nil {
		v.Field("username", *d.Username).Required().MaxLength(50)
	}
	if d.FullName != nil {
		v.Field("full_name", *d.FullName).MaxLength(100)
	}
	v.Field("email", d.Email).Custom(emailAddress("email"))
	if d.StartDate != nil {
		v.Field("start_date", *d.StartDate).Date()
	}
	if d.EndDate != nil {
		v.Field("end_date", *d.EndDate).Date()
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().OneOf(roles...)
	}
	return v.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("current_password", d.CurrentPassword).Required()
	v.Field("new_password", d.NewPassword).Required().MinLength(minPasswordLength).MaxLength(maxPasswordLength)
	return v.Validate()
}

func emailAddress(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(*string)
		if s == nil || *s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(*s); err != nil {
			return internal.NewValidationFieldError(field, field+" must be a valid email address", internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

// parseOptionalDate maps "" to nil so a date can be cleared.
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

type ManagerUpdateDTO struct {
	ManagerID int64 `json:"manager_id"`
}

func (d ManagerUpdateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("manager_id", d.ManagerID).Required()
	return v.Validate()
}

type UserResponse struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        *string   `json:"email"`
	CostCenter   string    `json:"cost_center"`
	Remark       string    `json:"remark"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Role         string    `json:"role"`
	TeamLeaderID *int64    `json:"team_leader_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type OKResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}
