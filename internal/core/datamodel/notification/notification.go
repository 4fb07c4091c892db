package notification

import "time"

type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Type      string    `gorm:"column:type;not null"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message"`
	Date      time.Time `gorm:"column:date;not null"`
	Read      bool      `gorm:"column:read;default:false"`
	ActionURL *string   `gorm:"column:action_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
