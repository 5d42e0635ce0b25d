package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/mail"
	"github.com/frahmantamala/timesheet-tracker/internal/settings"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"github.com/shopspring/decimal"
)

const defaultPortalURL = "http://localhost:8080"

type RepositoryAPI interface {
	// ListReminderRecipients returns non-admin, non-deleted users with an email.
	ListReminderRecipients(ctx context.Context) ([]Recipient, error)
	// ListTeamLeaderRecipients returns non-deleted team leaders with an email.
	ListTeamLeaderRecipients(ctx context.Context) ([]Recipient, error)
	DailyTotals(ctx context.Context, userIDs []int64, from, to time.Time) ([]DayTotal, error)
	// LeadersWithPendingApprovals returns ids of team leaders that have a
	// subordinate with an unverified, non-zero entry in the range.
	LeadersWithPendingApprovals(ctx context.Context, from, to time.Time) ([]int64, error)
	HasPendingApprovals(ctx context.Context, leaderID int64) (bool, error)
}

type SettingsProvider interface {
	Current(ctx context.Context) (*settings.Settings, error)
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithPortalURL sets the link included in reminder emails.
func WithPortalURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.portalURL = url
		}
	}
}

type Service struct {
	repo      RepositoryAPI
	settings  SettingsProvider
	sender    mail.SenderAPI
	logger    *slog.Logger
	now       func() time.Time
	portalURL string
}

func NewService(repo RepositoryAPI, settings SettingsProvider, sender mail.SenderAPI, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		settings:  settings,
		sender:    sender,
		logger:    logger,
		now:       time.Now,
		portalURL: defaultPortalURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) window() Window {
	return WindowFor(s.now())
}

// RunTimesheetCheck emails every reachable user with an incomplete weekday in
// the window.
func (s *Service) RunTimesheetCheck(ctx context.Context) (*Result, error) {
	smtp, err := s.smtpSettings(ctx)
	if err != nil {
		return nil, err
	}
	if smtp == nil {
		return &Result{Message: "SMTP settings not configured"}, nil
	}

	w := s.window()
	recipients, err := s.repo.ListReminderRecipients(ctx)
	if err != nil {
		s.logger.Error("failed to list reminder recipients", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	ids := make([]int64, 0, len(recipients))
	for _, r := range recipients {
		ids = append(ids, r.UserID)
	}
	totals, err := s.totalsByUser(ctx, ids, w)
	if err != nil {
		return nil, err
	}

	days := w.Weekdays()
	var flagged []string
	for _, r := range recipients {
		if _, incomplete := firstIncomplete(days, totals[r.UserID]); incomplete {
			flagged = append(flagged, r.Email)
		}
	}

	s.logger.Info("timesheet compliance scan", "window_start", w.Start, "window_end", w.End, "checked", len(recipients), "flagged", len(flagged))

	if len(flagged) == 0 {
		return &Result{Message: "All users have completed their timesheets."}, nil
	}

	return s.deliver(ctx, smtp, timesheetSubject, fmt.Sprintf(timesheetBody, s.portalURL), flagged,
		fmt.Sprintf("Reminder sent to %d employees.", len(flagged))), nil
}

// RunApprovalCheck emails every reachable team leader with pending approvals
// in the window.
func (s *Service) RunApprovalCheck(ctx context.Context) (*Result, error) {
	smtp, err := s.smtpSettings(ctx)
	if err != nil {
		return nil, err
	}
	if smtp == nil {
		return &Result{Message: "SMTP settings not configured"}, nil
	}

	w := s.window()
	leaders, err := s.repo.ListTeamLeaderRecipients(ctx)
	if err != nil {
		s.logger.Error("failed to list team leaders", "error", err)
		return nil, internal.NewInternalError("failed to list team leaders", err)
	}
	pendingIDs, err := s.repo.LeadersWithPendingApprovals(ctx, w.Start, w.End)
	if err != nil {
		s.logger.Error("failed to scan pending approvals", "error", err)
		return nil, internal.NewInternalError("failed to scan pending approvals", err)
	}

	pending := make(map[int64]bool, len(pendingIDs))
	for _, id := range pendingIDs {
		pending[id] = true
	}

	var flagged []string
	for _, l := range leaders {
		if pending[l.UserID] {
			flagged = append(flagged, l.Email)
		}
	}

	s.logger.Info("approval compliance scan", "window_start", w.Start, "window_end", w.End, "leaders", len(leaders), "flagged", len(flagged))

	if len(flagged) == 0 {
		return &Result{Message: "All timesheets are approved."}, nil
	}

	return s.deliver(ctx, smtp, approvalSubject, fmt.Sprintf(approvalBody, s.portalURL), flagged,
		fmt.Sprintf("Reminder sent to %d Team Leaders.", len(flagged))), nil
}

// CheckUser reports the first incomplete weekday of one user in the window.
func (s *Service) CheckUser(ctx context.Context, userID int64) (*Status, error) {
	w := s.window()
	totals, err := s.totalsByUser(ctx, []int64{userID}, w)
	if err != nil {
		return nil, err
	}

	d, incomplete := firstIncomplete(w.Weekdays(), totals[userID])
	if !incomplete {
		return &Status{Compliant: true}, nil
	}
	date := d.Format("2006-01-02")
	return &Status{Compliant: false, FirstIncompleteDate: &date}, nil
}

// PendingApprovals reports whether a team leader has anything left to verify.
// Other roles never do.
func (s *Service) PendingApprovals(ctx context.Context, actor *coreuser.Actor) (*PendingApprovals, error) {
	if !actor.IsTeamLeader() {
		return &PendingApprovals{}, nil
	}
	has, err := s.repo.HasPendingApprovals(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to check pending approvals", "error", err, "leader_id", actor.ID)
		return nil, internal.NewInternalError("failed to check pending approvals", err)
	}
	return &PendingApprovals{HasPending: has}, nil
}

// RunScheduled runs both scans when reminders are switched on.
func (s *Service) RunScheduled(ctx context.Context) {
	current, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.Error("scheduled compliance: failed to load settings", "error", err)
		return
	}
	if current == nil || !current.RemindersEnabled {
		s.logger.Info("scheduled compliance: reminders disabled, skipping")
		return
	}

	checks := []struct {
		name string
		run  func(context.Context) (*Result, error)
	}{
		{"timesheets", s.RunTimesheetCheck},
		{"approvals", s.RunApprovalCheck},
	}
	for _, check := range checks {
		result, err := check.run(ctx)
		if err != nil {
			s.logger.Error("scheduled compliance check failed", "check", check.name, "error", err)
			continue
		}
		s.logger.Info("scheduled compliance check finished", "check", check.name, "message", result.Message, "notified", result.Notified, "delivery_error", result.Error)
	}
}

func (s *Service) smtpSettings(ctx context.Context) (*settings.Settings, error) {
	current, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !current.Configured() {
		return nil, nil
	}
	return current, nil
}

func (s *Service) totalsByUser(ctx context.Context, userIDs []int64, w Window) (map[int64]map[time.Time]decimal.Decimal, error) {
	out := make(map[int64]map[time.Time]decimal.Decimal, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := s.repo.DailyTotals(ctx, userIDs, w.Start, w.End)
	if err != nil {
		s.logger.Error("failed to load daily totals", "error", err)
		return nil, internal.NewInternalError("failed to load timesheet totals", err)
	}
	for _, row := range rows {
		days, ok := out[row.UserID]
		if !ok {
			days = make(map[time.Time]decimal.Decimal)
			out[row.UserID] = days
		}
		d := workday.Date(row.Date)
		days[d] = days[d].Add(row.Hours)
	}
	return out, nil
}

// deliver sends one message with the sender as To and every flagged address
// as Bcc.
func (s *Service) deliver(ctx context.Context, smtp *settings.Settings, subject, body string, bcc []string, success string) *Result {
	msg := mail.Message{
		From:    smtp.SenderEmail,
		To:      []string{smtp.SenderEmail},
		Bcc:     bcc,
		Subject: subject,
		Body:    body,
	}
	if err := s.sender.Send(ctx, smtp.MailServer(), msg); err != nil {
		s.logger.Error("failed to send reminder", "error", err, "subject", subject, "recipients", len(bcc))
		return &Result{Error: err.Error()}
	}
	return &Result{Message: success, Notified: len(bcc)}
}
