package feedback

import "time"

type Feedback struct {
	ID         int64     `gorm:"primaryKey"`
	TrainingID int64     `gorm:"column:training_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null;index"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment"`
	Date       time.Time `gorm:"column:date;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Feedback) TableName() string {
	return "training_feedback"
}
