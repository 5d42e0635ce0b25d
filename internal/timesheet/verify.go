package timesheet

import (
	"context"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	"github.com/frahmantamala/timesheet-tracker/internal/core/events"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"github.com/shopspring/decimal"
)

// VerifyDay marks every entry of a direct report on one date as verified.
// The day is rejected as a whole when it totals more than a full work day.
func (s *Service) VerifyDay(ctx context.Context, leader *coreuser.Actor, userID int64, date time.Time) (*VerifyResult, error) {
	if !leader.IsTeamLeader() {
		return nil, internal.NewForbiddenError("only team leaders can verify timesheets", internal.ErrCodeInsufficientRole)
	}

	target, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !leader.Leads(target) {
		return nil, internal.NewForbiddenError("not your subordinate", internal.ErrCodeNotSubordinate)
	}

	day := workday.Date(date)
	result := &VerifyResult{UserID: target.ID, Date: day.Format("2006-01-02")}

	err = s.repo.WithinTransaction(ctx, func(tx TxRepository) error {
		if err := tx.LockUser(ctx, target.ID); err != nil {
			return err
		}

		rows, err := tx.FindByUserAndDate(ctx, target.ID, day)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, row := range rows {
			total = total.Add(row.Hours)
		}
		result.TotalHours = total
		if total.GreaterThan(workday.DailyCap()) {
			return internal.NewInvalidOperationError("cannot verify a day with more than 8 hours logged", internal.ErrCodeDailyCap)
		}

		n, err := tx.MarkVerified(ctx, target.ID, day)
		if err != nil {
			return err
		}
		result.Verified = n
		return nil
	})
	if err != nil {
		return nil, s.transactionError(err, "failed to verify timesheets", "user_id", userID, "date", result.Date)
	}

	s.logger.Info("timesheet day verified", "user_id", target.ID, "date", result.Date, "rows", result.Verified, "leader_id", leader.ID)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewTimesheetDayVerifiedEvent(leader.ID, target.ID, day, result.Verified)); err != nil {
			s.logger.Warn("failed to publish verification event", "error", err)
		}
	}

	return result, nil
}
