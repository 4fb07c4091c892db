package certificate

import "time"

type Certificate struct {
	ID                int64      `gorm:"primaryKey"`
	UserID            int64      `gorm:"column:user_id;not null;index"`
	TrainingID        int64      `gorm:"column:training_id;not null;index"`
	Title             string     `gorm:"column:title;not null"`
	IssueDate         time.Time  `gorm:"column:issue_date;not null"`
	ExpiryDate        *time.Time `gorm:"column:expiry_date"`
	FileURL           *string    `gorm:"column:file_url"`
	WorkdayStatus     string     `gorm:"column:workday_status;not null;default:pending"`
	CertificateNumber string     `gorm:"column:certificate_number"`
	Issuer            string     `gorm:"column:issuer"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Certificate) TableName() string {
	return "certificates"
}
