package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRegistrationSubmitted = "registration.submitted"
	EventTypeRegistrationApproved  = "registration.approved"
	EventTypeRegistrationRejected  = "registration.rejected"
	EventTypeRegistrationCancelled = "registration.cancelled"
	EventTypeCertificateIssued     = "certificate.issued"
	EventTypeCertificateExpiring   = "certificate.expiring"
)

type RegistrationEvent struct {
	BaseEvent
	RegistrationID int64  `json:"registration_id"`
	TrainingID     int64  `json:"training_id"`
	UserID         int64  `json:"user_id"`
	Status         string `json:"status"`
}

func NewRegistrationEvent(eventType string, registrationID, trainingID, userID int64, status string) *RegistrationEvent {
	return &RegistrationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"registration_id": registrationID,
				"training_id":     trainingID,
				"user_id":         userID,
				"status":          status,
			},
		},
		RegistrationID: registrationID,
		TrainingID:     trainingID,
		UserID:         userID,
		Status:         status,
	}
}

type CertificateEvent struct {
	BaseEvent
	CertificateID int64      `json:"certificate_id"`
	TrainingID    int64      `json:"training_id"`
	UserID        int64      `json:"user_id"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

func NewCertificateEvent(eventType string, certificateID, trainingID, userID int64, expiryDate *time.Time) *CertificateEvent {
	return &CertificateEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"certificate_id": certificateID,
				"training_id":    trainingID,
				"user_id":        userID,
			},
		},
		CertificateID: certificateID,
		TrainingID:    trainingID,
		UserID:        userID,
		ExpiryDate:    expiryDate,
	}
}
