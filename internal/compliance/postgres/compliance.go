package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/timesheet-tracker/internal/compliance"
	"github.com/jmoiron/sqlx"
)

// ComplianceRepository runs the read-only scans with plain SQL. Queries are
// written with ? placeholders and rebound for the connected driver.
type ComplianceRepository struct {
	db *sqlx.DB
}

func NewComplianceRepository(db *sqlx.DB) compliance.RepositoryAPI {
	return &ComplianceRepository{db: db}
}

func (r *ComplianceRepository) ListReminderRecipients(ctx context.Context) ([]compliance.Recipient, error) {
	query := r.db.Rebind(`
SELECT id, email FROM users
WHERE role <> ? AND is_deleted = ? AND email IS NOT NULL AND email <> ''
ORDER BY id`)

	var out []compliance.Recipient
	if err := r.db.SelectContext(ctx, &out, query, "admin", false); err != nil {
		return nil, fmt.Errorf("list reminder recipients: %w", err)
	}
	return out, nil
}

func (r *ComplianceRepository) ListTeamLeaderRecipients(ctx context.Context) ([]compliance.Recipient, error) {
	query := r.db.Rebind(`
SELECT id, email FROM users
WHERE role = ? AND is_deleted = ? AND email IS NOT NULL AND email <> ''
ORDER BY id`)

	var out []compliance.Recipient
	if err := r.db.SelectContext(ctx, &out, query, "team_leader", false); err != nil {
		return nil, fmt.Errorf("list team leader recipients: %w", err)
	}
	return out, nil
}

func (r *ComplianceRepository) DailyTotals(ctx context.Context, userIDs []int64, from, to time.Time) ([]compliance.DayTotal, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
SELECT user_id, date, SUM(hours) AS hours FROM timesheets
WHERE user_id IN (?) AND date >= ? AND date <= ?
GROUP BY user_id, date
ORDER BY user_id, date`, userIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily totals: build query: %w", err)
	}

	var out []compliance.DayTotal
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return out, nil
}

func (r *ComplianceRepository) LeadersWithPendingApprovals(ctx context.Context, from, to time.Time) ([]int64, error) {
	query := r.db.Rebind(`
SELECT DISTINCT u.team_leader_id FROM timesheets t
JOIN users u ON u.id = t.user_id
WHERE u.team_leader_id IS NOT NULL
  AND t.date >= ? AND t.date <= ?
  AND t.hours > 0 AND t.verify = ?
ORDER BY u.team_leader_id`)

	var out []int64
	if err := r.db.SelectContext(ctx, &out, query, from, to, false); err != nil {
		return nil, fmt.Errorf("leaders with pending approvals: %w", err)
	}
	return out, nil
}

func (r *ComplianceRepository) HasPendingApprovals(ctx context.Context, leaderID int64) (bool, error) {
	query := r.db.Rebind(`
SELECT EXISTS(
  SELECT 1 FROM timesheets t
  JOIN users u ON u.id = t.user_id
  WHERE u.team_leader_id = ? AND t.hours > 0 AND t.verify = ?
)`)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, leaderID, false); err != nil {
		return false, fmt.Errorf("has pending approvals: %w", err)
	}
	return exists, nil
}
