package workday

import "time"

// WorkDay stores an exception to the default Monday to Friday calendar.
type WorkDay struct {
	Date    time.Time `gorm:"column:date;type:date;primaryKey"`
	DayType string    `gorm:"column:day_type;not null"`
	Remark  string    `gorm:"column:remark"`
}

func (WorkDay) TableName() string {
	return "work_days"
}
