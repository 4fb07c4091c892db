package feedback

import (
	"log/slog"
	"math"
	"time"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/training"
)

type RepositoryAPI interface {
	Create(f *Feedback) error
	GetByTrainingID(trainingID int64) ([]*Feedback, error)
	GetByUserAndTraining(userID, trainingID int64) (*Feedback, error)
}

// CatalogAPI resolves trainings for the has-it-happened-yet check.
type CatalogAPI interface {
	GetTrainingByID(id int64) (*training.Training, error)
}

type Service struct {
	repo    RepositoryAPI
	catalog CatalogAPI
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, catalog CatalogAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit records one feedback entry per user per training. Ratings are
// accepted only after the training date has passed.
func (s *Service) Submit(userID int64, dto SubmitDTO) (*Feedback, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRating)
	}

	t, err := s.catalog.GetTrainingByID(dto.TrainingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !t.CompletedAt(now) {
		return nil, ErrTrainingNotHeld
	}

	existing, err := s.repo.GetByUserAndTraining(userID, dto.TrainingID)
	if err != nil && err != ErrNotFound {
		s.logger.Error("feedback lookup failed", "error", err, "user_id", userID)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubmitted
	}

	f := &Feedback{
		TrainingID: dto.TrainingID,
		UserID:     userID,
		Rating:     dto.Rating,
		Comment:    dto.Comment,
		Date:       now,
		CreatedAt:  now,
	}

	if err := s.repo.Create(f); err != nil {
		s.logger.Error("failed to create feedback", "error", err, "user_id", userID, "training_id", dto.TrainingID)
		return nil, err
	}

	s.logger.Info("feedback submitted",
		"feedback_id", f.ID,
		"training_id", dto.TrainingID,
		"rating", dto.Rating)
	return f, nil
}

// ListForTraining returns all feedback entries for a training with its
// rating summary.
func (s *Service) ListForTraining(trainingID int64) ([]*Feedback, *Summary, error) {
	entries, err := s.repo.GetByTrainingID(trainingID)
	if err != nil {
		s.logger.Error("failed to list feedback", "error", err, "training_id", trainingID)
		return nil, nil, err
	}
	return entries, Summarize(trainingID, entries), nil
}

// Summarize averages ratings to one decimal place. An empty slice yields a
// zero average rather than NaN.
func Summarize(trainingID int64, entries []*Feedback) *Summary {
	summary := &Summary{TrainingID: trainingID, Count: len(entries)}
	if len(entries) == 0 {
		return summary
	}

	total := 0
	for _, f := range entries {
		total += f.Rating
	}
	summary.AverageRating = math.Round(float64(total)/float64(len(entries))*10) / 10
	return summary
}
