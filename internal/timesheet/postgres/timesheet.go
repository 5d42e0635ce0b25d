package postgres

import (
	"context"
	"time"

	timesheetDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/timesheet-tracker/internal/timesheet"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) timesheet.RepositoryAPI {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) WithinTransaction(ctx context.Context, fn func(tx timesheet.TxRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepository{db: tx})
	})
}

func (r *TimesheetRepository) List(ctx context.Context, filter timesheet.ListFilter) ([]*timesheetDatamodel.Timesheet, error) {
	q := r.db.WithContext(ctx).Model(&timesheetDatamodel.Timesheet{})
	if len(filter.UserIDs) > 0 {
		q = q.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("date <= ?", filter.To)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []*timesheetDatamodel.Timesheet
	err := q.Order("date DESC").Order("id ASC").Find(&rows).Error
	return rows, err
}

type txRepository struct {
	db *gorm.DB
}

// LockUser takes a row lock on the owning user so concurrent writes for the
// same user serialise on the weekly total. SQLite ignores the locking clause.
func (r *txRepository) LockUser(ctx context.Context, userID int64) error {
	var u userDatamodel.User
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		Take(&u).Error
}

func (r *txRepository) FindByKey(ctx context.Context, userID, projectID int64, date time.Time) ([]*timesheetDatamodel.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ? AND date = ?", userID, projectID, date).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *txRepository) FindByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*timesheetDatamodel.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *txRepository) SumHours(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&timesheetDatamodel.Timesheet{}).
		Select("SUM(hours)").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

func (r *txRepository) Create(ctx context.Context, t *timesheetDatamodel.Timesheet) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *txRepository) Update(ctx context.Context, t *timesheetDatamodel.Timesheet) error {
	return r.db.WithContext(ctx).Model(t).Select("hours", "verify", "updated_at").Updates(t).Error
}

func (r *txRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&timesheetDatamodel.Timesheet{}, id).Error
}

func (r *txRepository) MarkVerified(ctx context.Context, userID int64, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&timesheetDatamodel.Timesheet{}).
		Where("user_id = ? AND date = ?", userID, date).
		Updates(map[string]interface{}{"verify": true, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
