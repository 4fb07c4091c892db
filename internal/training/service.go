package training

import (
	"log/slog"
	"strings"
	"time"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/user"
)

type RepositoryAPI interface {
	Create(t *Training) error
	GetByID(id int64) (*Training, error)
	GetAll() ([]*Training, error)
	GetByCategory(category string) ([]*Training, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateTraining adds a catalog entry; only LMS managers and admins may
// create trainings.
func (s *Service) CreateTraining(dto CreateTrainingDTO, creatorID int64, creatorRole user.Role) (*Training, error) {
	if !creatorRole.CanManageCatalog() {
		s.logger.Warn("create training denied", "user_id", creatorID, "role", creatorRole)
		return nil, internal.NewForbiddenError("lms manager access required", internal.ErrCodeUnauthorizedDecision)
	}

	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := s.now()
	t := &Training{
		Title:              dto.Title,
		Description:        dto.Description,
		Category:           dto.Category,
		Date:               dto.Date,
		Duration:           dto.Duration,
		Location:           dto.Location,
		MaxParticipants:    dto.MaxParticipants,
		Price:              dto.Price,
		Provider:           dto.Provider,
		Tags:               dto.Tags,
		Requirements:       dto.Requirements,
		LearningObjectives: dto.LearningObjectives,
		CreatedBy:          creatorID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create training", "error", err, "title", dto.Title)
		return nil, err
	}

	t.Status = t.StatusAt(now)

	s.logger.Info("training created",
		"training_id", t.ID,
		"title", t.Title,
		"created_by", creatorID)

	return t, nil
}

func (s *Service) GetTrainingByID(id int64) (*Training, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewNotFoundError("training not found", internal.ErrCodeTrainingNotFound)
	}
	t.Status = t.StatusAt(s.now())
	return t, nil
}

// ListTrainings returns catalog entries matching the filter, with derived
// status stamped on each row.
func (s *Service) ListTrainings(filter ListFilter) ([]*Training, error) {
	var (
		trainings []*Training
		err       error
	)

	if filter.Category != "" && filter.Category != "all" {
		trainings, err = s.repo.GetByCategory(filter.Category)
	} else {
		trainings, err = s.repo.GetAll()
	}
	if err != nil {
		s.logger.Error("failed to list trainings", "error", err)
		return nil, err
	}

	now := s.now()
	filtered := make([]*Training, 0, len(trainings))
	for _, t := range trainings {
		t.Status = t.StatusAt(now)
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Query != "" && !matchesQuery(t, filter.Query) {
			continue
		}
		filtered = append(filtered, t)
	}

	return filtered, nil
}

func matchesQuery(t *Training, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Provider), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
