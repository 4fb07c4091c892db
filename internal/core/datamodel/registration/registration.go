package registration

import "time"

type Registration struct {
	ID               int64      `gorm:"primaryKey"`
	TrainingID       int64      `gorm:"column:training_id;not null;index"`
	UserID           int64      `gorm:"column:user_id;not null;index"`
	RegistrationDate time.Time  `gorm:"column:registration_date;not null"`
	Status           string     `gorm:"column:status;not null;default:pending_manager"`
	ManagerID        *int64     `gorm:"column:manager_id"`
	LMSManagerID     *int64     `gorm:"column:lms_manager_id"`
	RejectionReason  *string    `gorm:"column:rejection_reason"`
	Comments         *string    `gorm:"column:comments"`
	DecidedAt        *time.Time `gorm:"column:decided_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Registration) TableName() string {
	return "training_registrations"
}
