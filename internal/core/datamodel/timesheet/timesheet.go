package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

type Timesheet struct {
	ID        int64           `gorm:"primaryKey"`
	UserID    int64           `gorm:"column:user_id;not null;uniqueIndex:idx_timesheets_user_project_date,priority:1"`
	ProjectID int64           `gorm:"column:project_id;not null;uniqueIndex:idx_timesheets_user_project_date,priority:2"`
	Date      time.Time       `gorm:"column:date;type:date;not null;uniqueIndex:idx_timesheets_user_project_date,priority:3"`
	Hours     decimal.Decimal `gorm:"column:hours;type:numeric(5,2);not null"`
	Verify    bool            `gorm:"column:verify;not null;default:false"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
