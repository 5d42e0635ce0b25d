package user

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name"`
	Email        *string    `gorm:"column:email"`
	CostCenter   string     `gorm:"column:cost_center"`
	Remark       string     `gorm:"column:remark"`
	StartDate    *time.Time `gorm:"column:start_date;type:date"`
	EndDate      *time.Time `gorm:"column:end_date;type:date"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         string     `gorm:"column:role;not null;default:employee"`
	TeamLeaderID *int64     `gorm:"column:team_leader_id;index"`
	IsDeleted    bool       `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
