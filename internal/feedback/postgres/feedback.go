package postgres

import (
	feedbackDatamodel "github.com/corelearn/training-management/internal/core/datamodel/feedback"
	"github.com/corelearn/training-management/internal/feedback"
	"gorm.io/gorm"
)

// FeedbackRepository implements feedback.RepositoryAPI using GORM.
type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) feedback.RepositoryAPI {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(f *feedback.Feedback) error {
	dm := feedback.ToDataModel(f)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	f.ID = dm.ID
	return nil
}

func (r *FeedbackRepository) GetByTrainingID(trainingID int64) ([]*feedback.Feedback, error) {
	var dms []*feedbackDatamodel.Feedback
	err := r.db.Where("training_id = ?", trainingID).
		Order("date DESC, id DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return feedback.FromDataModelSlice(dms), nil
}

func (r *FeedbackRepository) GetByUserAndTraining(userID, trainingID int64) (*feedback.Feedback, error) {
	var dm feedbackDatamodel.Feedback
	err := r.db.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, feedback.ErrNotFound
		}
		return nil, err
	}
	return feedback.FromDataModel(&dm), nil
}
