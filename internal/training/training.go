package training

import (
	"errors"
	"strings"
	"time"

	trainingDatamodel "github.com/corelearn/training-management/internal/core/datamodel/training"
)

// Status is derived, never stored: the catalog row keeps counts and dates
// and the status is computed against the clock at read time.
type Status string

const (
	StatusAvailable Status = "available"
	StatusFull      Status = "full"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Category is the closed set of training categories carried over from the
// vehicle-maintenance training catalog.
var Categories = []string{"Elektrik", "Bremsen", "Führerschein", "Sicherheit", "Wartung", "Spezial"}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

var (
	ErrNotFound         = errors.New("training not found")
	ErrCapacityExceeded = errors.New("training capacity exceeded")
)

type Training struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	Date                time.Time `json:"date"`
	Duration            string    `json:"duration"`
	Location            string    `json:"location"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Price               int64     `json:"price_cents"`
	Provider            string    `json:"provider"`
	Status              Status    `json:"status"`
	Cancelled           bool      `json:"-"`
	Tags                []string  `json:"tags"`
	Requirements        []string  `json:"requirements,omitempty"`
	LearningObjectives  []string  `json:"learning_objectives"`
	CreatedBy           int64     `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// StatusAt derives the catalog status for the given instant.
func (t *Training) StatusAt(now time.Time) Status {
	switch {
	case t.Cancelled:
		return StatusCancelled
	case t.Date.Before(now):
		return StatusCompleted
	case t.CurrentParticipants >= t.MaxParticipants:
		return StatusFull
	default:
		return StatusAvailable
	}
}

// HasCapacity is the advisory check used at submission time. The
// authoritative check happens atomically at LMS approval.
func (t *Training) HasCapacity() bool {
	return t.CurrentParticipants < t.MaxParticipants
}

func (t *Training) CompletedAt(now time.Time) bool {
	return t.Date.Before(now)
}

const tagSeparator = "|"

func joinList(items []string) string {
	return strings.Join(items, tagSeparator)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagSeparator)
}

func ToDataModel(t *Training) *trainingDatamodel.Training {
	return &trainingDatamodel.Training{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		Category:            t.Category,
		Date:                t.Date,
		Duration:            t.Duration,
		Location:            t.Location,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Price:               t.Price,
		Provider:            t.Provider,
		Cancelled:           t.Cancelled,
		Tags:                joinList(t.Tags),
		Requirements:        joinList(t.Requirements),
		LearningObjectives:  joinList(t.LearningObjectives),
		CreatedBy:           t.CreatedBy,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func FromDataModel(t *trainingDatamodel.Training) *Training {
	return &Training{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		Category:            t.Category,
		Date:                t.Date,
		Duration:            t.Duration,
		Location:            t.Location,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Price:               t.Price,
		Provider:            t.Provider,
		Cancelled:           t.Cancelled,
		Tags:                splitList(t.Tags),
		Requirements:        splitList(t.Requirements),
		LearningObjectives:  splitList(t.LearningObjectives),
		CreatedBy:           t.CreatedBy,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func FromDataModelSlice(trainings []*trainingDatamodel.Training) []*Training {
	result := make([]*Training, len(trainings))
	for i, t := range trainings {
		result[i] = FromDataModel(t)
	}
	return result
}
