package settings

import "time"

type SMTPSettings struct {
	ID               int64     `gorm:"primaryKey"`
	Server           string    `gorm:"column:server"`
	Port             int       `gorm:"column:port"`
	Username         string    `gorm:"column:username"`
	Password         string    `gorm:"column:password"`
	SenderEmail      string    `gorm:"column:sender_email"`
	RemindersEnabled bool      `gorm:"column:reminders_enabled;not null;default:false"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SMTPSettings) TableName() string {
	return "smtp_settings"
}
