package training

import (
	"errors"
	"time"
)

// CreateTrainingDTO is the request payload for creating a catalog entry.
type CreateTrainingDTO struct {
	Title              string    `json:"title" validate:"required,min=1,max=200"`
	Description        string    `json:"description" validate:"max=2000"`
	Category           string    `json:"category" validate:"required"`
	Date               time.Time `json:"date" validate:"required"`
	Duration           string    `json:"duration"`
	Location           string    `json:"location"`
	MaxParticipants    int       `json:"max_participants" validate:"required,min=1"`
	Price              int64     `json:"price_cents" validate:"min=0"`
	Provider           string    `json:"provider"`
	Tags               []string  `json:"tags"`
	Requirements       []string  `json:"requirements"`
	LearningObjectives []string  `json:"learning_objectives"`
}

func (dto CreateTrainingDTO) Validate() error {
	if dto.Title == "" {
		return errors.New("title is required")
	}
	if !ValidCategory(dto.Category) {
		return errors.New("unknown category")
	}
	if dto.Date.IsZero() {
		return errors.New("date is required")
	}
	if dto.Date.Before(time.Now()) {
		return errors.New("training date cannot be in the past")
	}
	if dto.MaxParticipants < 1 {
		return errors.New("max participants must be at least 1")
	}
	if dto.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// ListFilter narrows catalog queries; zero values mean no filtering.
type ListFilter struct {
	Category string
	Status   Status
	Query    string
}
