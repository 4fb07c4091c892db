package registration

import (
	"net/http"
	"time"

	"github.com/corelearn/training-management/internal"
	registrationDatamodel "github.com/corelearn/training-management/internal/core/datamodel/registration"
)

// Status is the registration workflow state. Transitions are restricted to
// the edges in CanTransitionTo; everything else is rejected.
type Status string

const (
	StatusPendingManager Status = "pending_manager"
	StatusPendingLMS     Status = "pending_lms"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusCancelled      Status = "cancelled"
)

// CanTransitionTo encodes the workflow edges:
//
//	pending_manager -> pending_lms | rejected | cancelled
//	pending_lms     -> approved | rejected | cancelled
//	approved        -> cancelled
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPendingManager:
		return next == StatusPendingLMS || next == StatusRejected || next == StatusCancelled
	case StatusPendingLMS:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Active statuses hold or may come to hold a seat; the duplicate guard
// only counts these.
func (s Status) Active() bool {
	return s == StatusPendingManager || s == StatusPendingLMS || s == StatusApproved
}

var (
	ErrNotFound = internal.NewNotFoundError("registration not found", internal.ErrCodeRegistrationNotFound)

	ErrCapacityExceeded = &internal.AppError{
		Type:       internal.ErrorTypeConflict,
		Code:       internal.ErrCodeCapacityExceeded,
		Message:    "training has no free seats",
		StatusCode: http.StatusConflict,
	}

	ErrDuplicateRegistration = internal.NewConflictError(
		"an active registration already exists for this training",
		internal.ErrCodeDuplicateRegistration)

	ErrInvalidTransition = internal.NewValidationError(
		"registration status does not allow this operation",
		internal.ErrCodeInvalidTransition)

	ErrUnauthorizedDecision = internal.NewForbiddenError(
		"caller may not decide this registration",
		internal.ErrCodeUnauthorizedDecision)

	ErrMissingReason = internal.NewValidationError(
		"a reason is required when rejecting a registration",
		internal.ErrCodeMissingReason)

	ErrNoApprover = internal.NewConflictError(
		"no lms manager available for assignment",
		internal.ErrCodeNoApproverAvailable)

	ErrMissingManager = internal.NewValidationError(
		"user has no manager with the manager role",
		internal.ErrCodeMissingManager)

	ErrTrainingCompleted = internal.NewValidationError(
		"training already took place",
		internal.ErrCodeTrainingCompleted)
)

type Registration struct {
	ID               int64      `json:"id"`
	TrainingID       int64      `json:"training_id"`
	UserID           int64      `json:"user_id"`
	RegistrationDate time.Time  `json:"registration_date"`
	Status           Status     `json:"status"`
	ManagerID        *int64     `json:"manager_id,omitempty"`
	LMSManagerID     *int64     `json:"lms_manager_id,omitempty"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
	Comments         *string    `json:"comments,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ToDataModel(r *Registration) *registrationDatamodel.Registration {
	return &registrationDatamodel.Registration{
		ID:               r.ID,
		TrainingID:       r.TrainingID,
		UserID:           r.UserID,
		RegistrationDate: r.RegistrationDate,
		Status:           string(r.Status),
		ManagerID:        r.ManagerID,
		LMSManagerID:     r.LMSManagerID,
		RejectionReason:  r.RejectionReason,
		Comments:         r.Comments,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModel(r *registrationDatamodel.Registration) *Registration {
	return &Registration{
		ID:               r.ID,
		TrainingID:       r.TrainingID,
		UserID:           r.UserID,
		RegistrationDate: r.RegistrationDate,
		Status:           Status(r.Status),
		ManagerID:        r.ManagerID,
		LMSManagerID:     r.LMSManagerID,
		RejectionReason:  r.RejectionReason,
		Comments:         r.Comments,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModelSlice(registrations []*registrationDatamodel.Registration) []*Registration {
	result := make([]*Registration, len(registrations))
	for i, r := range registrations {
		result[i] = FromDataModel(r)
	}
	return result
}
