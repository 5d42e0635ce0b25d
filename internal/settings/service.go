package settings

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	settingsDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/settings"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/mail"
)

const (
	testSubject = "Test Email from Timesheet System"
	testBody    = "This is a test email to verify your SMTP settings."
)

type RepositoryAPI interface {
	Get(ctx context.Context) (*settingsDatamodel.SMTPSettings, error)
	Save(ctx context.Context, s *settingsDatamodel.SMTPSettings) error
}

type Service struct {
	repo   RepositoryAPI
	sender mail.SenderAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, sender mail.SenderAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

// Current returns the stored settings, or nil when none were ever saved.
func (s *Service) Current(ctx context.Context) (*Settings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load smtp settings", "error", err)
		return nil, internal.NewInternalError("failed to load settings", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// Get returns the settings for display, falling back to an empty record on
// the default port.
func (s *Service) Get(ctx context.Context, actor *coreuser.Actor) (*Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &Settings{Port: defaultSMTPPort}, nil
	}
	return current, nil
}

// Update replaces the single settings record. An empty password keeps the
// stored one.
func (s *Service) Update(ctx context.Context, actor *coreuser.Actor, dto UpdateSettingsDTO) (*Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &Settings{}
	}

	current.Server = dto.Server
	current.Port = dto.Port
	current.Username = dto.Username
	if dto.Password != "" {
		current.Password = dto.Password
	}
	current.SenderEmail = dto.SenderEmail
	current.RemindersEnabled = dto.RemindersEnabled
	current.UpdatedAt = s.now()

	row := ToDataModel(current)
	if err := s.repo.Save(ctx, row); err != nil {
		s.logger.Error("failed to save smtp settings", "error", err)
		return nil, internal.NewInternalError("failed to save settings", err)
	}

	s.logger.Info("smtp settings updated", "server", current.Server, "port", current.Port, "reminders_enabled", current.RemindersEnabled, "actor_id", actor.ID)
	return FromDataModel(row), nil
}

// SendTest delivers a fixed message to recipient with the stored settings.
func (s *Service) SendTest(ctx context.Context, actor *coreuser.Actor, dto TestEmailDTO) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if !current.Configured() {
		return internal.NewInvalidOperationError("SMTP settings not configured", internal.ErrCodeSMTPNotSet)
	}

	msg := mail.Message{
		From:    current.SenderEmail,
		To:      []string{dto.Recipient},
		Subject: testSubject,
		Body:    testBody,
	}
	if err := s.sender.Send(ctx, current.MailServer(), msg); err != nil {
		s.logger.Error("failed to send test email", "error", err, "server", current.Server)
		return internal.NewInternalError(err.Error(), err)
	}
	return nil
}

func requireAdmin(actor *coreuser.Actor) error {
	if actor == nil || !actor.IsAdmin() {
		return internal.NewForbiddenError("only administrators can manage settings", internal.ErrCodeInsufficientRole)
	}
	return nil
}
