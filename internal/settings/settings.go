package settings

import (
	"time"

	settingsDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/settings"
	"github.com/frahmantamala/timesheet-tracker/internal/mail"
)

const defaultSMTPPort = 587

type Settings struct {
	ID               int64
	Server           string
	Port             int
	Username         string
	Password         string
	SenderEmail      string
	RemindersEnabled bool
	UpdatedAt        time.Time
}

// Configured reports whether enough is set to attempt delivery.
func (s *Settings) Configured() bool {
	return s != nil && s.Server != "" && s.Port > 0 && s.SenderEmail != ""
}

func (s *Settings) MailServer() mail.Server {
	return mail.Server{
		Host:     s.Server,
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
	}
}

// ToResponse never exposes the stored password.
func (s *Settings) ToResponse() SettingsResponse {
	return SettingsResponse{
		Server:           s.Server,
		Port:             s.Port,
		Username:         s.Username,
		PasswordSet:      s.Password != "",
		SenderEmail:      s.SenderEmail,
		RemindersEnabled: s.RemindersEnabled,
		UpdatedAt:        s.UpdatedAt,
	}
}

func ToDataModel(s *Settings) *settingsDatamodel.SMTPSettings {
	return &settingsDatamodel.SMTPSettings{
		ID:               s.ID,
		Server:           s.Server,
		Port:             s.Port,
		Username:         s.Username,
		Password:         s.Password,
		SenderEmail:      s.SenderEmail,
		RemindersEnabled: s.RemindersEnabled,
		UpdatedAt:        s.UpdatedAt,
	}
}

func FromDataModel(s *settingsDatamodel.SMTPSettings) *Settings {
	return &Settings{
		ID:               s.ID,
		Server:           s.Server,
		Port:             s.Port,
		Username:         s.Username,
		Password:         s.Password,
		SenderEmail:      s.SenderEmail,
		RemindersEnabled: s.RemindersEnabled,
		UpdatedAt:        s.UpdatedAt,
	}
}
