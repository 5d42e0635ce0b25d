package settings

import (
	"net/mail"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/common/validation"
)

type UpdateSettingsDTO struct {
	Server           string `json:"smtp_server"`
	Port             int    `json:"smtp_port"`
	Username         string `json:"smtp_username"`
	Password         string `json:"smtp_password"`
	SenderEmail      string `json:"sender_email"`
	RemindersEnabled bool   `json:"reminders_enabled"`
}

func (d UpdateSettingsDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("smtp_server", d.Server).Required().MaxLength(255)
	v.Field("smtp_port", d.Port).Custom(func(value interface{}) *internal.AppError {
		if p, _ := value.(int); p < 1 || p > 65535 {
			return internal.NewValidationFieldError("smtp_port", "smtp_port must be between 1 and 65535", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("sender_email", d.SenderEmail).Required().Custom(emailAddress("sender_email"))
	return v.Validate()
}

type TestEmailDTO struct {
	Recipient string `json:"recipient"`
}

func (d TestEmailDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("recipient", d.Recipient).Required().Custom(emailAddress("recipient"))
	return v.Validate()
}

func emailAddress(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return internal.NewValidationFieldError(field, field+" must be a valid email address", internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

type SettingsResponse struct {
	Server           string    `json:"smtp_server"`
	Port             int       `json:"smtp_port"`
	Username         string    `json:"smtp_username"`
	PasswordSet      bool      `json:"smtp_password_set"`
	SenderEmail      string    `json:"sender_email"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
