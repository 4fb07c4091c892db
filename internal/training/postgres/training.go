package postgres

import (
	trainingDatamodel "github.com/corelearn/training-management/internal/core/datamodel/training"
	"github.com/corelearn/training-management/internal/training"
	"gorm.io/gorm"
)

// TrainingRepository implements training.RepositoryAPI using GORM.
type TrainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) training.RepositoryAPI {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) Create(t *training.Training) error {
	dm := training.ToDataModel(t)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	t.ID = dm.ID
	return nil
}

func (r *TrainingRepository) GetByID(id int64) (*training.Training, error) {
	var dm trainingDatamodel.Training
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, training.ErrNotFound
		}
		return nil, err
	}
	return training.FromDataModel(&dm), nil
}

func (r *TrainingRepository) GetAll() ([]*training.Training, error) {
	var dms []*trainingDatamodel.Training
	err := r.db.Order("id ASC").Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return training.FromDataModelSlice(dms), nil
}

func (r *TrainingRepository) GetByCategory(category string) ([]*training.Training, error) {
	var dms []*trainingDatamodel.Training
	err := r.db.Where("category = ?", category).
		Order("id ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return training.FromDataModelSlice(dms), nil
}
