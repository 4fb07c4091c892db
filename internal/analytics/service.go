package analytics

import (
	"log/slog"
	"sort"
	"time"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/certificate"
	"github.com/corelearn/training-management/internal/registration"
	"github.com/corelearn/training-management/internal/training"
	"github.com/corelearn/training-management/internal/user"
)

// CatalogAPI, RegistryAPI and CertificateAPI are the read-only slices of the
// other domains the aggregator scans. No analytics state is stored.
type CatalogAPI interface {
	GetAll() ([]*training.Training, error)
}

type RegistryAPI interface {
	GetAll() ([]*registration.Registration, error)
	GetByUserID(userID int64) ([]*registration.Registration, error)
}

type CertificateAPI interface {
	GetByUserID(userID int64) ([]*certificate.Certificate, error)
}

type DirectoryAPI interface {
	GetByID(userID int64) (*user.User, error)
}

type Service struct {
	catalog      CatalogAPI
	registry     RegistryAPI
	certificates CertificateAPI
	directory    DirectoryAPI
	horizonDays  int
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(catalog CatalogAPI, registry RegistryAPI, certificates CertificateAPI, directory DirectoryAPI, horizonDays int, logger *slog.Logger) *Service {
	if horizonDays <= 0 {
		horizonDays = certificate.DefaultExpiryHorizonDays
	}
	return &Service{
		catalog:      catalog,
		registry:     registry,
		certificates: certificates,
		directory:    directory,
		horizonDays:  horizonDays,
		logger:       logger,
		now:          time.Now,
	}
}

const topTrainingsLimit = 5

// TrainingStats aggregates the whole catalog and registration history.
func (s *Service) TrainingStats() (*TrainingStats, error) {
	trainings, err := s.catalog.GetAll()
	if err != nil {
		s.logger.Error("failed to load trainings for stats", "error", err)
		return nil, err
	}
	registrations, err := s.registry.GetAll()
	if err != nil {
		s.logger.Error("failed to load registrations for stats", "error", err)
		return nil, err
	}

	now := s.now()
	stats := &TrainingStats{
		Total:      len(trainings),
		ByCategory: make(map[string]int),
	}

	var totalSpent int64
	totalParticipants := 0
	for _, t := range trainings {
		switch t.StatusAt(now) {
		case training.StatusAvailable:
			stats.Available++
		case training.StatusFull:
			stats.Full++
		case training.StatusCompleted:
			stats.Completed++
		}
		stats.ByCategory[t.Category]++
		totalSpent += t.Price * int64(t.CurrentParticipants)
		totalParticipants += t.CurrentParticipants
	}

	for _, name := range training.Categories {
		if count, ok := stats.ByCategory[name]; ok {
			stats.CategoryStats = append(stats.CategoryStats, CategoryCount{Name: name, Count: count})
		}
	}

	stats.CostStats.TotalSpentCents = totalSpent
	if len(trainings) > 0 {
		stats.CostStats.AveragePerTrainingCents = totalSpent / int64(len(trainings))
	}
	if totalParticipants > 0 {
		stats.CostStats.AveragePerParticipantCents = totalSpent / int64(totalParticipants)
	}

	completedByTraining := make(map[int64]int)
	totalByTraining := make(map[int64]int)
	for _, r := range registrations {
		switch r.Status {
		case registration.StatusApproved:
			stats.ApprovalStats.Approved++
			completedByTraining[r.TrainingID]++
		case registration.StatusPendingManager, registration.StatusPendingLMS:
			stats.ApprovalStats.Pending++
		case registration.StatusRejected:
			stats.ApprovalStats.Rejected++
		}
		totalByTraining[r.TrainingID]++
	}

	stats.TopTrainings = topByParticipation(trainings, completedByTraining, totalByTraining)
	return stats, nil
}

// topByParticipation ranks trainings by seats taken. The sort is stable so
// trainings with equal counts keep catalog order.
func topByParticipation(trainings []*training.Training, completed, total map[int64]int) []TopTraining {
	ranked := make([]TopTraining, 0, len(trainings))
	for _, t := range trainings {
		ranked = append(ranked, TopTraining{
			ID:               t.ID,
			Title:            t.Title,
			Category:         t.Category,
			ParticipantCount: t.CurrentParticipants,
			CompletionRate:   CompletionRate(completed[t.ID], total[t.ID]),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ParticipantCount > ranked[j].ParticipantCount
	})

	if len(ranked) > topTrainingsLimit {
		ranked = ranked[:topTrainingsLimit]
	}
	return ranked
}

// EmployeeStats summarizes one user's registrations and certificates.
// Visible to LMS managers, admins, the user's own manager and the user.
func (s *Service) EmployeeStats(targetID, callerID int64, callerRole user.Role) (*EmployeeStats, error) {
	if err := s.authorizeEmployeeStats(targetID, callerID, callerRole); err != nil {
		return nil, err
	}

	registrations, err := s.registry.GetByUserID(targetID)
	if err != nil {
		s.logger.Error("failed to load registrations for employee stats", "error", err, "user_id", targetID)
		return nil, err
	}
	certs, err := s.certificates.GetByUserID(targetID)
	if err != nil {
		s.logger.Error("failed to load certificates for employee stats", "error", err, "user_id", targetID)
		return nil, err
	}

	now := s.now()
	stats := &EmployeeStats{
		UserID:         targetID,
		TotalTrainings: len(registrations),
		Certificates:   len(certs),
	}

	for _, r := range registrations {
		switch r.Status {
		case registration.StatusApproved:
			stats.CompletedTrainings++
		case registration.StatusPendingManager, registration.StatusPendingLMS:
			stats.ActiveTrainings++
			stats.PendingApprovals++
		}
		if stats.LastTrainingDate == nil || r.RegistrationDate.After(*stats.LastTrainingDate) {
			d := r.RegistrationDate
			stats.LastTrainingDate = &d
		}
	}

	for _, c := range certs {
		if c.ExpiryStateAt(now, s.horizonDays) == certificate.ExpiryExpiring {
			stats.ExpiringCertificates++
		}
	}

	stats.CompletionRate = CompletionRate(stats.CompletedTrainings, stats.TotalTrainings)
	return stats, nil
}

func (s *Service) authorizeEmployeeStats(targetID, callerID int64, callerRole user.Role) error {
	if targetID == callerID || callerRole.CanViewAllEmployees() {
		return nil
	}
	if callerRole == user.RoleManager {
		target, err := s.directory.GetByID(targetID)
		if err != nil {
			return err
		}
		if target.ManagerID != nil && *target.ManagerID == callerID {
			return nil
		}
	}
	return internal.NewForbiddenError("not allowed to view this employee", internal.ErrCodeUnauthorizedDecision)
}
