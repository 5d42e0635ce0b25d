package project

import "time"

type Project struct {
	ID               int64      `gorm:"primaryKey"`
	Name             string     `gorm:"column:name;uniqueIndex;not null"`
	FullName         string     `gorm:"column:full_name"`
	CustomID         string     `gorm:"column:custom_id"`
	Status           string     `gorm:"column:status;not null;default:'NOT START'"`
	StartDate        *time.Time `gorm:"column:start_date;type:date"`
	PlannedCloseDate *time.Time `gorm:"column:planned_close_date;type:date"`
	Description      string     `gorm:"column:description"`
	IsDefault        bool       `gorm:"column:is_default;not null;default:false"`
	IsDeleted        bool       `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}
