package user

import "time"

// UserProject links a user to a project they are assigned to.
type UserProject struct {
	UserID    int64     `gorm:"column:user_id;primaryKey"`
	ProjectID int64     `gorm:"column:project_id;primaryKey;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserProject) TableName() string {
	return "user_projects"
}
