package timesheet

import (
	"context"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal"
	coreuser "github.com/frahmantamala/timesheet-tracker/internal/core/user"
	"github.com/shopspring/decimal"
)

// BatchUpsert applies entries for a single user in input order inside one
// transaction. Each entry sees the effect of the ones before it on the weekly
// total, and any failure rolls back the whole batch.
func (s *Service) BatchUpsert(ctx context.Context, actor *coreuser.Actor, entries []Entry) ([]*Timesheet, error) {
	if len(entries) == 0 {
		return nil, internal.NewValidationError("batch must contain at least one entry", internal.ErrCodeEmptyBatch)
	}

	userID := entries[0].UserID
	for _, e := range entries[1:] {
		if e.UserID != userID {
			return nil, internal.NewInvalidOperationError("batch must target a single user", internal.ErrCodeMixedBatch)
		}
	}

	target, err := s.authorizeWrite(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	limits := make(map[time.Time]decimal.Decimal)
	plans := make([]*plannedWrite, 0, len(entries))
	for _, e := range entries {
		p, err := s.plan(ctx, actor, target, e, limits)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	results := make([]*writeResult, 0, len(plans))
	err = s.repo.WithinTransaction(ctx, func(tx TxRepository) error {
		if err := tx.LockUser(ctx, target.ID); err != nil {
			return err
		}
		for _, p := range plans {
			r, err := s.write(ctx, tx, actor, p)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, s.transactionError(err, "failed to save timesheet batch", "user_id", userID, "entries", len(entries))
	}

	saved := make([]*Timesheet, 0, len(results))
	for _, r := range results {
		s.publishUpserted(ctx, actor, r)
		saved = append(saved, r.timesheet)
	}

	s.logger.Info("timesheet batch saved", "user_id", userID, "entries", len(saved), "actor_id", actor.ID)
	return saved, nil
}
