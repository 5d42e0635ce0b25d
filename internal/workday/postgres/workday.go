package postgres

import (
	"context"
	"errors"
	"time"

	workdayDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/workday"
	"github.com/frahmantamala/timesheet-tracker/internal/workday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkDayRepository struct {
	db *gorm.DB
}

func NewWorkDayRepository(db *gorm.DB) workday.RepositoryAPI {
	return &WorkDayRepository{db: db}
}

func (r *WorkDayRepository) GetByDate(ctx context.Context, date time.Time) (*workdayDatamodel.WorkDay, error) {
	var day workdayDatamodel.WorkDay
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &day, nil
}

// ListBetween returns exceptions within [from, to]; a zero bound is open.
func (r *WorkDayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*workdayDatamodel.WorkDay, error) {
	q := r.db.WithContext(ctx).Model(&workdayDatamodel.WorkDay{})
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}

	var days []*workdayDatamodel.WorkDay
	err := q.Order("date ASC").Find(&days).Error
	return days, err
}

func (r *WorkDayRepository) Upsert(ctx context.Context, day *workdayDatamodel.WorkDay) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"day_type", "remark"}),
	}).Create(day).Error
}

func (r *WorkDayRepository) Delete(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).Where("date = ?", date).Delete(&workdayDatamodel.WorkDay{}).Error
}
