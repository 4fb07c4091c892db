package certificate_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/certificate"
	"github.com/corelearn/training-management/internal/notification"
)

type mockCertificateRepository struct {
	certificates map[int64]*certificate.Certificate
	createErr    error
	updateErr    error
	nextID       int64
}

func newMockCertificateRepository() *mockCertificateRepository {
	return &mockCertificateRepository{
		certificates: make(map[int64]*certificate.Certificate),
		nextID:       1,
	}
}

func (m *mockCertificateRepository) add(cert *certificate.Certificate) *certificate.Certificate {
	cert.ID = m.nextID
	m.nextID++
	m.certificates[cert.ID] = cert
	return cert
}

func (m *mockCertificateRepository) Create(cert *certificate.Certificate) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.add(cert)
	return nil
}

func (m *mockCertificateRepository) GetByID(id int64) (*certificate.Certificate, error) {
	cert, ok := m.certificates[id]
	if !ok {
		return nil, certificate.ErrNotFound
	}
	return cert, nil
}

func (m *mockCertificateRepository) GetByUserID(userID int64) ([]*certificate.Certificate, error) {
	var out []*certificate.Certificate
	for _, cert := range m.certificates {
		if cert.UserID == userID {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (m *mockCertificateRepository) GetByUserAndTraining(userID, trainingID int64) (*certificate.Certificate, error) {
	for _, cert := range m.certificates {
		if cert.UserID == userID && cert.TrainingID == trainingID {
			return cert, nil
		}
	}
	return nil, certificate.ErrNotFound
}

func (m *mockCertificateRepository) GetExpiringWithin(now time.Time, horizonDays int) ([]*certificate.Certificate, error) {
	horizon := now.Add(time.Duration(horizonDays) * 24 * time.Hour)
	var out []*certificate.Certificate
	for _, cert := range m.certificates {
		if cert.ExpiryDate == nil {
			continue
		}
		if cert.ExpiryDate.After(now) && !cert.ExpiryDate.After(horizon) {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (m *mockCertificateRepository) Update(cert *certificate.Certificate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.certificates[cert.ID] = cert
	return nil
}

type mockNotifier struct {
	notifications []*notification.Notification
	createErr     error
}

func (m *mockNotifier) Create(n *notification.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.notifications = append(m.notifications, n)
	return nil
}

type mockStorage struct {
	storeErr error
}

func (m *mockStorage) Store(userID, trainingID int64, fileName string) (string, error) {
	if m.storeErr != nil {
		return "", m.storeErr
	}
	return "/certificates/stored/" + fileName, nil
}

var _ = Describe("CertificateService", func() {
	var (
		service  *certificate.Service
		repo     *mockCertificateRepository
		notifier *mockNotifier
		storage  *mockStorage
		logger   *slog.Logger
	)

	validUpload := func() certificate.UploadDTO {
		return certificate.UploadDTO{
			TrainingID:  3,
			Title:       "Ladungssicherung Auffrischung",
			Issuer:      "DEKRA",
			FileName:    "zertifikat.pdf",
			ContentType: "application/pdf",
			FileSize:    1024,
		}
	}

	BeforeEach(func() {
		repo = newMockCertificateRepository()
		notifier = &mockNotifier{}
		storage = &mockStorage{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		policy := certificate.FilePolicy{
			MaxSizeBytes: 5 * 1024 * 1024,
			AllowedTypes: []string{"application/pdf", "image/png", "image/jpeg"},
		}
		service = certificate.NewService(repo, notifier, storage, nil, policy, 90, logger)
	})

	Describe("Upload", func() {
		It("creates a fresh uploaded certificate when none exists", func() {
			cert, err := service.Upload(7, validUpload())
			Expect(err).ToNot(HaveOccurred())

			Expect(cert.WorkdayStatus).To(Equal(certificate.WorkdayUploaded))
			Expect(cert.FileURL).ToNot(BeNil())
			Expect(*cert.FileURL).To(Equal("/certificates/stored/zertifikat.pdf"))
			Expect(cert.CertificateNumber).ToNot(BeEmpty())
			Expect(cert.ExpiryState).To(Equal(certificate.ExpiryValid))
		})

		It("attaches the file to an existing pending issuance instead of duplicating", func() {
			pending := repo.add(certificate.NewPendingIssuance(7, 3, "Ladungssicherung Auffrischung", "DEKRA", time.Now()))

			cert, err := service.Upload(7, validUpload())
			Expect(err).ToNot(HaveOccurred())

			Expect(cert.ID).To(Equal(pending.ID))
			Expect(cert.WorkdayStatus).To(Equal(certificate.WorkdayUploaded))
			Expect(cert.FileURL).ToNot(BeNil())
			Expect(repo.certificates).To(HaveLen(1))
		})

		It("refuses to touch a verified certificate", func() {
			verified := repo.add(certificate.NewPendingIssuance(7, 3, "Ladungssicherung Auffrischung", "DEKRA", time.Now()))
			verified.WorkdayStatus = certificate.WorkdayVerified

			_, err := service.Upload(7, validUpload())
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(repo.certificates[verified.ID].WorkdayStatus).To(Equal(certificate.WorkdayVerified))
		})

		It("rejects a file the policy disallows", func() {
			dto := validUpload()
			dto.ContentType = "application/zip"

			_, err := service.Upload(7, dto)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidFile))
			Expect(repo.certificates).To(BeEmpty())
		})

		It("rejects an oversized file", func() {
			dto := validUpload()
			dto.FileSize = 10 * 1024 * 1024

			_, err := service.Upload(7, dto)
			Expect(err).To(HaveOccurred())
			Expect(repo.certificates).To(BeEmpty())
		})

		It("stamps the expiring state when the expiry date is near", func() {
			dto := validUpload()
			dto.ExpiryDate = datePtr(time.Now().Add(30 * 24 * time.Hour))

			cert, err := service.Upload(7, dto)
			Expect(err).ToNot(HaveOccurred())
			Expect(cert.ExpiryState).To(Equal(certificate.ExpiryExpiring))
		})

		It("propagates storage failures", func() {
			storage.storeErr = errors.New("bucket unavailable")

			_, err := service.Upload(7, validUpload())
			Expect(err).To(MatchError("bucket unavailable"))
		})
	})

	Describe("ListForUser", func() {
		It("classifies each certificate against the horizon", func() {
			noExpiry := certificate.NewPendingIssuance(7, 1, "A", "X", time.Now())
			repo.add(noExpiry)

			expiring := certificate.NewPendingIssuance(7, 2, "B", "X", time.Now())
			expiring.ExpiryDate = datePtr(time.Now().Add(10 * 24 * time.Hour))
			repo.add(expiring)

			expired := certificate.NewPendingIssuance(7, 3, "C", "X", time.Now())
			expired.ExpiryDate = datePtr(time.Now().Add(-24 * time.Hour))
			repo.add(expired)

			certs, err := service.ListForUser(7)
			Expect(err).ToNot(HaveOccurred())
			Expect(certs).To(HaveLen(3))

			states := map[int64]certificate.ExpiryState{}
			for _, c := range certs {
				states[c.TrainingID] = c.ExpiryState
			}
			Expect(states[1]).To(Equal(certificate.ExpiryValid))
			Expect(states[2]).To(Equal(certificate.ExpiryExpiring))
			Expect(states[3]).To(Equal(certificate.ExpiryExpired))
		})
	})

	Describe("ScanExpiring", func() {
		It("emits one reminder per certificate inside the horizon", func() {
			soon := certificate.NewPendingIssuance(7, 1, "Hochvolt-Systeme Stufe 2", "TÜV", time.Now())
			soon.ExpiryDate = datePtr(time.Now().Add(20 * 24 * time.Hour))
			repo.add(soon)

			far := certificate.NewPendingIssuance(8, 2, "B", "X", time.Now())
			far.ExpiryDate = datePtr(time.Now().Add(365 * 24 * time.Hour))
			repo.add(far)

			forever := certificate.NewPendingIssuance(9, 3, "C", "X", time.Now())
			repo.add(forever)

			emitted, err := service.ScanExpiring()
			Expect(err).ToNot(HaveOccurred())
			Expect(emitted).To(Equal(1))

			Expect(notifier.notifications).To(HaveLen(1))
			Expect(notifier.notifications[0].UserID).To(Equal(int64(7)))
			Expect(notifier.notifications[0].Type).To(Equal(notification.TypeReminder))
		})

		It("returns zero when nothing is expiring", func() {
			emitted, err := service.ScanExpiring()
			Expect(err).ToNot(HaveOccurred())
			Expect(emitted).To(BeZero())
			Expect(notifier.notifications).To(BeEmpty())
		})

		It("stops and reports the error when a reminder cannot be recorded", func() {
			soon := certificate.NewPendingIssuance(7, 1, "A", "X", time.Now())
			soon.ExpiryDate = datePtr(time.Now().Add(20 * 24 * time.Hour))
			repo.add(soon)

			notifier.createErr = errors.New("notification store down")

			_, err := service.ScanExpiring()
			Expect(err).To(MatchError("notification store down"))
		})
	})
})
