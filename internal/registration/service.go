package registration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corelearn/training-management/internal"
	"github.com/corelearn/training-management/internal/certificate"
	"github.com/corelearn/training-management/internal/core/events"
	"github.com/corelearn/training-management/internal/notification"
	"github.com/corelearn/training-management/internal/training"
	"github.com/corelearn/training-management/internal/user"
)

// RepositoryAPI is the transactional data access the workflow needs. Every
// mutating method that takes a notification or certificate persists it in
// the same transaction as the status change: a failed transition must leave
// no notification behind, and an approval must never commit without its
// pending certificate or seat.
type RepositoryAPI interface {
	Create(reg *Registration, notif *notification.Notification) error
	GetByID(id int64) (*Registration, error)
	GetByUserID(userID int64) ([]*Registration, error)
	GetAll() ([]*Registration, error)
	GetPendingForManager(managerID int64) ([]*Registration, error)
	GetPendingLMS() ([]*Registration, error)
	HasActiveRegistration(userID, trainingID int64) (bool, error)

	// AdvanceToLMS moves pending_manager -> pending_lms, guarded on the
	// current status. Returns ErrInvalidTransition when the guard misses.
	AdvanceToLMS(id, lmsManagerID int64) error

	// Reject moves the registration from the given pending status to
	// rejected, recording the reason and the rejection notification.
	Reject(id int64, from Status, reason string, notif *notification.Notification) error

	// ApproveAndIssue atomically: reserves a seat with a compare-and-swap
	// on current_participants, moves pending_lms -> approved, inserts the
	// pending certificate and the approval notification. Returns
	// ErrCapacityExceeded when the seat CAS fails, ErrInvalidTransition
	// when the status guard fails; in either case nothing is committed.
	ApproveAndIssue(id, trainingID, deciderID int64, cert *certificate.Certificate, notif *notification.Notification) error

	// Cancel moves the registration to cancelled from the given status.
	// When releaseSeat is true the training's seat count is decremented in
	// the same transaction.
	Cancel(id int64, from Status, trainingID int64, releaseSeat bool) error
}

// DirectoryAPI is the slice of the user directory the workflow consults.
type DirectoryAPI interface {
	GetByID(userID int64) (*user.User, error)
	ManagerFor(userID int64) (*user.User, error)
	LMSManagers() ([]*user.User, error)
}

// CatalogAPI resolves trainings for capacity and schedule checks.
type CatalogAPI interface {
	GetTrainingByID(id int64) (*training.Training, error)
}

// EventPublisher receives workflow events after the transition committed.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service drives a registration through the two-stage approval workflow.
type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	catalog   CatalogAPI
	assign    AssignmentPolicy
	bus       EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, catalog CatalogAPI, assign AssignmentPolicy, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		catalog:   catalog,
		assign:    assign,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit creates a registration in pending_manager for the calling
// employee. The capacity check here is advisory; the authoritative one
// happens at LMS approval.
func (s *Service) Submit(userID int64, dto SubmitDTO) (*Registration, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	t, err := s.catalog.GetTrainingByID(dto.TrainingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if t.CompletedAt(now) || t.Cancelled {
		return nil, ErrTrainingCompleted
	}
	if !t.HasCapacity() {
		s.logger.Info("registration rejected: training full",
			"training_id", t.ID,
			"user_id", userID)
		return nil, ErrCapacityExceeded
	}

	active, err := s.repo.HasActiveRegistration(userID, dto.TrainingID)
	if err != nil {
		s.logger.Error("duplicate check failed", "error", err, "user_id", userID, "training_id", dto.TrainingID)
		return nil, err
	}
	if active {
		return nil, ErrDuplicateRegistration
	}

	manager, err := s.directory.ManagerFor(userID)
	if err != nil {
		s.logger.Warn("submit failed: no manager resolved", "user_id", userID, "error", err)
		return nil, ErrMissingManager
	}

	reg := &Registration{
		TrainingID:       dto.TrainingID,
		UserID:           userID,
		RegistrationDate: now,
		Status:           StatusPendingManager,
		ManagerID:        &manager.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if dto.Comments != "" {
		comments := dto.Comments
		reg.Comments = &comments
	}

	notif := notification.New(userID, notification.TypeRegistration,
		"Registration submitted",
		fmt.Sprintf("Your registration for %q is awaiting manager approval.", t.Title),
		trainingURL(t.ID), now)

	if err := s.repo.Create(reg, notif); err != nil {
		s.logger.Error("failed to create registration", "error", err, "user_id", userID, "training_id", dto.TrainingID)
		return nil, err
	}

	s.logger.Info("registration submitted",
		"registration_id", reg.ID,
		"training_id", dto.TrainingID,
		"user_id", userID,
		"manager_id", manager.ID)

	s.publish(events.EventTypeRegistrationSubmitted, reg)

	return reg, nil
}

// ManagerDecision takes the first-stage decision. Only the resolved manager
// may decide, and only while the registration is pending_manager.
func (s *Service) ManagerDecision(registrationID, callerID int64, callerRole user.Role, dto DecisionDTO) (*Registration, error) {
	reg, err := s.repo.GetByID(registrationID)
	if err != nil {
		return nil, ErrNotFound
	}

	if reg.Status != StatusPendingManager {
		s.logger.Warn("manager decision on non-pending registration",
			"registration_id", registrationID,
			"status", reg.Status)
		return nil, ErrInvalidTransition
	}

	if !callerRole.CanApproveAsManager() || reg.ManagerID == nil || *reg.ManagerID != callerID {
		s.logger.Warn("manager decision denied",
			"registration_id", registrationID,
			"caller_id", callerID,
			"caller_role", callerRole)
		return nil, ErrUnauthorizedDecision
	}

	if !dto.Approve {
		return s.reject(reg, StatusPendingManager, dto.Reason)
	}

	candidates, err := s.directory.LMSManagers()
	if err != nil {
		return nil, err
	}
	approver, err := s.assign.SelectApprover(candidates)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AdvanceToLMS(reg.ID, approver.ID); err != nil {
		return nil, err
	}

	reg.Status = StatusPendingLMS
	reg.LMSManagerID = &approver.ID

	s.logger.Info("registration advanced to lms approval",
		"registration_id", reg.ID,
		"manager_id", callerID,
		"lms_manager_id", approver.ID)

	return reg, nil
}

// LMSDecision takes the second-stage decision. The caller must hold the
// lms_manager role; approval reserves the seat and issues the pending
// certificate atomically.
func (s *Service) LMSDecision(registrationID, callerID int64, callerRole user.Role, dto DecisionDTO) (*Registration, error) {
	reg, err := s.repo.GetByID(registrationID)
	if err != nil {
		return nil, ErrNotFound
	}

	if reg.Status != StatusPendingLMS {
		s.logger.Warn("lms decision on non-pending registration",
			"registration_id", registrationID,
			"status", reg.Status)
		return nil, ErrInvalidTransition
	}

	if !callerRole.CanApproveAsLMS() {
		s.logger.Warn("lms decision denied",
			"registration_id", registrationID,
			"caller_id", callerID,
			"caller_role", callerRole)
		return nil, ErrUnauthorizedDecision
	}

	if !dto.Approve {
		return s.reject(reg, StatusPendingLMS, dto.Reason)
	}

	t, err := s.catalog.GetTrainingByID(reg.TrainingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cert := certificate.NewPendingIssuance(reg.UserID, reg.TrainingID, t.Title, t.Provider, now)
	notif := notification.New(reg.UserID, notification.TypeApproval,
		"Registration approved",
		fmt.Sprintf("Your registration for %q has been approved.", t.Title),
		actionURL(reg), now)

	if err := s.repo.ApproveAndIssue(reg.ID, reg.TrainingID, callerID, cert, notif); err != nil {
		if err == ErrCapacityExceeded {
			s.logger.Info("lms approval lost the last seat",
				"registration_id", reg.ID,
				"training_id", reg.TrainingID)
		}
		return nil, err
	}

	reg.Status = StatusApproved
	decidedAt := now
	reg.DecidedAt = &decidedAt

	s.logger.Info("registration approved",
		"registration_id", reg.ID,
		"training_id", reg.TrainingID,
		"lms_manager_id", callerID)

	s.publish(events.EventTypeRegistrationApproved, reg)

	return reg, nil
}

// Cancel is user-initiated. Pending registrations cancel freely; approved
// ones only before the training date, releasing the held seat.
func (s *Service) Cancel(registrationID, callerID int64, callerRole user.Role) (*Registration, error) {
	reg, err := s.repo.GetByID(registrationID)
	if err != nil {
		return nil, ErrNotFound
	}

	if reg.UserID != callerID && callerRole != user.RoleAdmin {
		return nil, ErrUnauthorizedDecision
	}

	if !reg.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	releaseSeat := false
	if reg.Status == StatusApproved {
		t, err := s.catalog.GetTrainingByID(reg.TrainingID)
		if err != nil {
			return nil, err
		}
		if t.CompletedAt(s.now()) {
			return nil, ErrInvalidTransition
		}
		releaseSeat = true
	}

	if err := s.repo.Cancel(reg.ID, reg.Status, reg.TrainingID, releaseSeat); err != nil {
		return nil, err
	}

	prior := reg.Status
	reg.Status = StatusCancelled

	s.logger.Info("registration cancelled",
		"registration_id", reg.ID,
		"prior_status", prior,
		"seat_released", releaseSeat)

	s.publish(events.EventTypeRegistrationCancelled, reg)

	return reg, nil
}

func (s *Service) reject(reg *Registration, from Status, reason string) (*Registration, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}

	now := s.now()
	notif := notification.New(reg.UserID, notification.TypeRejection,
		"Registration rejected",
		fmt.Sprintf("Your training registration was rejected: %s", reason),
		actionURL(reg), now)

	if err := s.repo.Reject(reg.ID, from, reason, notif); err != nil {
		return nil, err
	}

	reg.Status = StatusRejected
	reg.RejectionReason = &reason
	decidedAt := now
	reg.DecidedAt = &decidedAt

	s.logger.Info("registration rejected",
		"registration_id", reg.ID,
		"stage", from,
		"reason", reason)

	s.publish(events.EventTypeRegistrationRejected, reg)

	return reg, nil
}

// GetByID returns a registration visible to the caller: the owner, the
// assigned approvers, lms managers and admins.
func (s *Service) GetByID(registrationID, callerID int64, callerRole user.Role) (*Registration, error) {
	reg, err := s.repo.GetByID(registrationID)
	if err != nil {
		return nil, ErrNotFound
	}

	if reg.UserID == callerID || callerRole.CanViewAllEmployees() {
		return reg, nil
	}
	if reg.ManagerID != nil && *reg.ManagerID == callerID {
		return reg, nil
	}
	return nil, ErrUnauthorizedDecision
}

// ListForCaller returns the caller's own registrations, plus the pending
// queue for their approval stage.
func (s *Service) ListForCaller(callerID int64, callerRole user.Role) (own []*Registration, pending []*Registration, err error) {
	own, err = s.repo.GetByUserID(callerID)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case callerRole.CanApproveAsManager():
		pending, err = s.repo.GetPendingForManager(callerID)
	case callerRole.CanApproveAsLMS():
		pending, err = s.repo.GetPendingLMS()
	}
	if err != nil {
		return nil, nil, err
	}

	return own, pending, nil
}

func (s *Service) publish(eventType string, reg *Registration) {
	if s.bus == nil {
		return
	}
	event := events.NewRegistrationEvent(eventType, reg.ID, reg.TrainingID, reg.UserID, string(reg.Status))
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish registration event",
			"event_type", eventType,
			"registration_id", reg.ID,
			"error", err)
	}
}

func actionURL(reg *Registration) *string {
	url := fmt.Sprintf("/registrations/%d", reg.ID)
	return &url
}

func trainingURL(trainingID int64) *string {
	url := fmt.Sprintf("/trainings/%d", trainingID)
	return &url
}
