package feedback

import (
	"net/http"
	"time"

	"github.com/corelearn/training-management/internal"
	feedbackDatamodel "github.com/corelearn/training-management/internal/core/datamodel/feedback"
)

var (
	ErrNotFound = internal.NewNotFoundError("feedback not found", internal.ErrCodeFeedbackNotFound)

	// ErrAlreadySubmitted guards the one-entry-per-attendee rule.
	ErrAlreadySubmitted = &internal.AppError{
		Type:       internal.ErrorTypeConflict,
		Code:       internal.ErrCodeDuplicateFeedback,
		Message:    "feedback already submitted for this training",
		StatusCode: http.StatusConflict,
	}

	// ErrTrainingNotHeld rejects feedback for trainings that have not taken
	// place yet.
	ErrTrainingNotHeld = internal.NewValidationError("feedback is only accepted after the training date", internal.ErrCodeTrainingNotCompleted)
)

type Feedback struct {
	ID         int64     `json:"id"`
	TrainingID int64     `json:"training_id"`
	UserID     int64     `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary aggregates ratings for a single training.
type Summary struct {
	TrainingID    int64   `json:"training_id"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

func ToDataModel(f *Feedback) *feedbackDatamodel.Feedback {
	return &feedbackDatamodel.Feedback{
		ID:         f.ID,
		TrainingID: f.TrainingID,
		UserID:     f.UserID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		Date:       f.Date,
		CreatedAt:  f.CreatedAt,
	}
}

func FromDataModel(f *feedbackDatamodel.Feedback) *Feedback {
	return &Feedback{
		ID:         f.ID,
		TrainingID: f.TrainingID,
		UserID:     f.UserID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		Date:       f.Date,
		CreatedAt:  f.CreatedAt,
	}
}

func FromDataModelSlice(entries []*feedbackDatamodel.Feedback) []*Feedback {
	result := make([]*Feedback, len(entries))
	for i, f := range entries {
		result[i] = FromDataModel(f)
	}
	return result
}
