package certificate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/core/events"
	"github.com/corelearn/training-management/internal/notification"
)

type RepositoryAPI interface {
	Create(cert *Certificate) error
	GetByID(id int64) (*Certificate, error)
	GetByUserID(userID int64) ([]*Certificate, error)
	GetByUserAndTraining(userID, trainingID int64) (*Certificate, error)
	GetExpiringWithin(now time.Time, horizonDays int) ([]*Certificate, error)
	Update(cert *Certificate) error
}

// NotifierAPI records reminder notifications produced by the expiry scan.
type NotifierAPI interface {
	Create(n *notification.Notification) error
}

// StorageAPI hands the uploaded file to external storage and returns a
// retrievable URL; only the URL is persisted here.
type StorageAPI interface {
	Store(userID, trainingID int64, fileName string) (string, error)
}

// PathStorage builds URLs under a fixed base path, standing in for the
// external file store.
type PathStorage struct {
	BasePath string
}

func (s PathStorage) Store(userID, trainingID int64, fileName string) (string, error) {
	base := s.BasePath
	if base == "" {
		base = "/certificates"
	}
	return fmt.Sprintf("%s/%d/%d/%s", base, userID, trainingID, fileName), nil
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo        RepositoryAPI
	notifier    NotifierAPI
	storage     StorageAPI
	bus         EventPublisher
	policy      FilePolicy
	horizonDays int
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, notifier NotifierAPI, storage StorageAPI, bus EventPublisher, policy FilePolicy, horizonDays int, logger *slog.Logger) *Service {
	if horizonDays <= 0 {
		horizonDays = DefaultExpiryHorizonDays
	}
	return &Service{
		repo:        repo,
		notifier:    notifier,
		storage:     storage,
		bus:         bus,
		policy:      policy,
		horizonDays: horizonDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Upload attaches an externally issued certificate file. When a pending
// issuance already exists for the training it is updated in place;
// otherwise a fresh certificate is recorded. Verified certificates are
// immutable.
func (s *Service) Upload(userID int64, dto UploadDTO) (*Certificate, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	if err := s.policy.Check(dto.ContentType, dto.FileSize); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidFile)
	}

	fileURL, err := s.storage.Store(userID, dto.TrainingID, dto.FileName)
	if err != nil {
		s.logger.Error("certificate storage failed", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.now()
	existing, err := s.repo.GetByUserAndTraining(userID, dto.TrainingID)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	if existing != nil {
		if existing.WorkdayStatus == WorkdayVerified {
			return nil, internal.NewValidationError("verified certificates cannot be modified", internal.ErrCodeValidationFailed)
		}
		existing.FileURL = &fileURL
		existing.WorkdayStatus = WorkdayUploaded
		if dto.Title != "" {
			existing.Title = dto.Title
		}
		if dto.Issuer != "" {
			existing.Issuer = dto.Issuer
		}
		if dto.CertificateNumber != "" {
			existing.CertificateNumber = dto.CertificateNumber
		}
		if dto.ExpiryDate != nil {
			existing.ExpiryDate = dto.ExpiryDate
		}
		existing.UpdatedAt = now

		if err := s.repo.Update(existing); err != nil {
			s.logger.Error("failed to update certificate", "error", err, "certificate_id", existing.ID)
			return nil, err
		}

		s.logger.Info("certificate file attached",
			"certificate_id", existing.ID,
			"user_id", userID,
			"training_id", dto.TrainingID)

		existing.ExpiryState = existing.ExpiryStateAt(now, s.horizonDays)
		return existing, nil
	}

	title := dto.Title
	if title == "" {
		title = "Certificate"
	}
	issuer := dto.Issuer
	if issuer == "" {
		issuer = "External provider"
	}

	cert := &Certificate{
		UserID:            userID,
		TrainingID:        dto.TrainingID,
		Title:             title,
		IssueDate:         now,
		ExpiryDate:        dto.ExpiryDate,
		FileURL:           &fileURL,
		WorkdayStatus:     WorkdayUploaded,
		CertificateNumber: dto.CertificateNumber,
		Issuer:            issuer,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if cert.CertificateNumber == "" {
		cert.CertificateNumber = newCertificateNumber()
	}

	if err := s.repo.Create(cert); err != nil {
		s.logger.Error("failed to create certificate", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("certificate uploaded",
		"certificate_id", cert.ID,
		"user_id", userID,
		"training_id", dto.TrainingID)

	cert.ExpiryState = cert.ExpiryStateAt(now, s.horizonDays)
	return cert, nil
}

// ListForUser returns the user's certificates with expiry classification
// stamped on each one.
func (s *Service) ListForUser(userID int64) ([]*Certificate, error) {
	certs, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list certificates", "error", err, "user_id", userID)
		return nil, err
	}

	now := s.now()
	for _, c := range certs {
		c.ExpiryState = c.ExpiryStateAt(now, s.horizonDays)
	}
	return certs, nil
}

// ScanExpiring emits reminder notifications for certificates inside the
// renewal horizon. Expiry is never tracked by a timer; this runs whenever a
// caller asks for it.
func (s *Service) ScanExpiring() (int, error) {
	now := s.now()
	certs, err := s.repo.GetExpiringWithin(now, s.horizonDays)
	if err != nil {
		s.logger.Error("expiry scan failed", "error", err)
		return 0, err
	}

	emitted := 0
	for _, c := range certs {
		if c.ExpiryStateAt(now, s.horizonDays) != ExpiryExpiring {
			continue
		}

		days := int(c.ExpiryDate.Sub(now).Hours() / 24)
		notif := notification.New(c.UserID, notification.TypeReminder,
			"Certificate expiring soon",
			fmt.Sprintf("Your certificate %q expires in %d days.", c.Title, days),
			nil, now)

		if err := s.notifier.Create(notif); err != nil {
			s.logger.Error("failed to record expiry reminder", "error", err, "certificate_id", c.ID)
			return emitted, err
		}
		emitted++

		if s.bus != nil {
			event := events.NewCertificateEvent(events.EventTypeCertificateExpiring, c.ID, c.TrainingID, c.UserID, c.ExpiryDate)
			if err := s.bus.Publish(context.Background(), event); err != nil {
				s.logger.Error("failed to publish expiry event", "error", err, "certificate_id", c.ID)
			}
		}
	}

	s.logger.Info("expiry scan completed", "expiring", emitted, "scanned", len(certs))
	return emitted, nil
}
