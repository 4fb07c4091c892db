package certificate

import (
	"errors"
	"fmt"
	"time"

	certificateDatamodel "github.com/corelearn/training-management/internal/core/datamodel/certificate"
	"github.com/google/uuid"
)

// WorkdayStatus is the verification state as recognized by the external HR
// system. It only ever moves forward: pending -> uploaded -> verified.
type WorkdayStatus string

const (
	WorkdayPending  WorkdayStatus = "pending"
	WorkdayUploaded WorkdayStatus = "uploaded"
	WorkdayVerified WorkdayStatus = "verified"
)

// ExpiryState is the renewal classification computed lazily at read time.
type ExpiryState string

const (
	ExpiryValid    ExpiryState = "valid"
	ExpiryExpiring ExpiryState = "expiring"
	ExpiryExpired  ExpiryState = "expired"
)

// DefaultExpiryHorizonDays is the lookahead used to flag certificates
// needing renewal.
const DefaultExpiryHorizonDays = 90

var (
	ErrNotFound  = errors.New("certificate not found")
	ErrImmutable = errors.New("verified certificates cannot be modified")
)

type Certificate struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"user_id"`
	TrainingID        int64         `json:"training_id"`
	Title             string        `json:"title"`
	IssueDate         time.Time     `json:"issue_date"`
	ExpiryDate        *time.Time    `json:"expiry_date,omitempty"`
	FileURL           *string       `json:"file_url,omitempty"`
	WorkdayStatus     WorkdayStatus `json:"workday_status"`
	CertificateNumber string        `json:"certificate_number"`
	Issuer            string        `json:"issuer"`
	ExpiryState       ExpiryState   `json:"expiry_state,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ExpiryWindow classifies a certificate against the renewal horizon. A
// certificate without an expiry date never expires. The horizon boundary is
// inclusive: exactly horizonDays out still counts as expiring; an expiry at
// or before now is expired.
func ExpiryWindow(expiryDate *time.Time, now time.Time, horizonDays int) ExpiryState {
	if expiryDate == nil {
		return ExpiryValid
	}

	remaining := expiryDate.Sub(now)
	if remaining <= 0 {
		return ExpiryExpired
	}
	if remaining <= time.Duration(horizonDays)*24*time.Hour {
		return ExpiryExpiring
	}
	return ExpiryValid
}

func (c *Certificate) ExpiryStateAt(now time.Time, horizonDays int) ExpiryState {
	return ExpiryWindow(c.ExpiryDate, now, horizonDays)
}

// NewPendingIssuance builds the certificate created when a registration is
// approved: workday verification has not started and no file exists yet.
func NewPendingIssuance(userID, trainingID int64, trainingTitle, issuer string, now time.Time) *Certificate {
	return &Certificate{
		UserID:            userID,
		TrainingID:        trainingID,
		Title:             trainingTitle,
		IssueDate:         now,
		WorkdayStatus:     WorkdayPending,
		CertificateNumber: newCertificateNumber(),
		Issuer:            issuer,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func newCertificateNumber() string {
	return fmt.Sprintf("CERT-%s", uuid.New().String()[:8])
}

func ToDataModel(c *Certificate) *certificateDatamodel.Certificate {
	return &certificateDatamodel.Certificate{
		ID:                c.ID,
		UserID:            c.UserID,
		TrainingID:        c.TrainingID,
		Title:             c.Title,
		IssueDate:         c.IssueDate,
		ExpiryDate:        c.ExpiryDate,
		FileURL:           c.FileURL,
		WorkdayStatus:     string(c.WorkdayStatus),
		CertificateNumber: c.CertificateNumber,
		Issuer:            c.Issuer,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func FromDataModel(c *certificateDatamodel.Certificate) *Certificate {
	return &Certificate{
		ID:                c.ID,
		UserID:            c.UserID,
		TrainingID:        c.TrainingID,
		Title:             c.Title,
		IssueDate:         c.IssueDate,
		ExpiryDate:        c.ExpiryDate,
		FileURL:           c.FileURL,
		WorkdayStatus:     WorkdayStatus(c.WorkdayStatus),
		CertificateNumber: c.CertificateNumber,
		Issuer:            c.Issuer,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func FromDataModelSlice(certs []*certificateDatamodel.Certificate) []*Certificate {
	result := make([]*Certificate, len(certs))
	for i, c := range certs {
		result[i] = FromDataModel(c)
	}
	return result
}
