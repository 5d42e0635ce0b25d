package postgres

import (
	"context"

	"github.com/frahmantamala/timesheet-tracker/internal/activitylog"
	activitylogDatamodel "github.com/frahmantamala/timesheet-tracker/internal/core/datamodel/activitylog"
	"gorm.io/gorm"
)

type ActivityLogRepository struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) activitylog.RepositoryAPI {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, log *activitylogDatamodel.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *ActivityLogRepository) List(ctx context.Context, offset, limit int) ([]*activitylogDatamodel.Entry, error) {
	var rows []*activitylogDatamodel.Entry
	err := r.db.WithContext(ctx).
		Table("activity_logs AS a").
		Select("a.id, a.user_id, COALESCE(u.username, '') AS username, a.action, a.details, a.timestamp").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Order("a.timestamp DESC").
		Order("a.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
