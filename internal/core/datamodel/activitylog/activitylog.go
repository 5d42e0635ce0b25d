package activitylog

import "time"

type ActivityLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Action    string    `gorm:"column:action;not null"`
	Details   string    `gorm:"column:details"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Entry is an activity log joined with the acting user's name.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
