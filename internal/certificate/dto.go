package certificate

import (
	"errors"
	"fmt"
	"time"
)

// UploadDTO is the request payload for attaching an externally issued
// certificate file. The file itself lives in external storage; only the
// metadata and the resulting URL are recorded here.
type UploadDTO struct {
	TrainingID        int64      `json:"training_id" validate:"required,min=1"`
	Title             string     `json:"title" validate:"max=200"`
	Issuer            string     `json:"issuer" validate:"max=200"`
	CertificateNumber string     `json:"certificate_number" validate:"max=100"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	FileName          string     `json:"file_name" validate:"required"`
	ContentType       string     `json:"content_type" validate:"required"`
	FileSize          int64      `json:"file_size" validate:"required,min=1"`
}

func (dto UploadDTO) Validate() error {
	if dto.TrainingID <= 0 {
		return errors.New("training_id is required")
	}
	if dto.FileName == "" {
		return errors.New("file name is required")
	}
	if dto.FileSize <= 0 {
		return errors.New("file size must be positive")
	}
	return nil
}

// FilePolicy is the caller-configured acceptance rule for uploads.
type FilePolicy struct {
	MaxSizeBytes int64
	AllowedTypes []string
}

func (p FilePolicy) Check(contentType string, size int64) error {
	if p.MaxSizeBytes > 0 && size > p.MaxSizeBytes {
		return fmt.Errorf("file exceeds maximum size of %d bytes", p.MaxSizeBytes)
	}
	if len(p.AllowedTypes) == 0 {
		return nil
	}
	for _, allowed := range p.AllowedTypes {
		if allowed == contentType {
			return nil
		}
	}
	return fmt.Errorf("file type %q is not accepted", contentType)
}
