package training

import "time"

type Training struct {
	ID                  int64     `gorm:"primaryKey"`
	Title               string    `gorm:"column:title;not null"`
	Description         string    `gorm:"column:description"`
	Category            string    `gorm:"column:category;not null"`
	Date                time.Time `gorm:"column:date;not null"`
	Duration            string    `gorm:"column:duration"`
	Location            string    `gorm:"column:location"`
	MaxParticipants     int       `gorm:"column:max_participants;not null"`
	CurrentParticipants int       `gorm:"column:current_participants;not null;default:0"`
	Price               int64     `gorm:"column:price_cents;not null;default:0"`
	Provider            string    `gorm:"column:provider"`
	Cancelled           bool      `gorm:"column:cancelled;default:false"`
	Tags                string    `gorm:"column:tags"`
	Requirements        string    `gorm:"column:requirements"`
	LearningObjectives  string    `gorm:"column:learning_objectives"`
	CreatedBy           int64     `gorm:"column:created_by;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Training) TableName() string {
	return "trainings"
}
