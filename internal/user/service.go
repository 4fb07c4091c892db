package user

import (
	"log/slog"

	"github.com/corelearn/training-management/internal"
)

type RepositoryAPI interface {
	GetByID(userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByRole(role Role) ([]*User, error)
	GetReports(managerID int64) ([]*User, error)
	GetAll() ([]*User, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, ErrNotFound
	}
	return u, nil
}

// ManagerFor resolves the reporting-line manager for an employee. The
// workflow engine uses this to route the first approval stage.
func (s *Service) ManagerFor(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if u.ManagerID == nil {
		return nil, ErrNoManager
	}
	mgr, err := s.repo.GetByID(*u.ManagerID)
	if err != nil {
		return nil, ErrNoManager
	}
	if mgr.Role != RoleManager {
		s.logger.Warn("manager reference does not have manager role",
			"user_id", userID,
			"manager_id", mgr.ID,
			"manager_role", mgr.Role)
		return nil, ErrNoManager
	}
	return mgr, nil
}

// LMSManagers returns every active user holding the lms_manager role,
// in directory order. Approver assignment policies pick from this list.
func (s *Service) LMSManagers() ([]*User, error) {
	users, err := s.repo.GetByRole(RoleLMSManager)
	if err != nil {
		s.logger.Error("failed to list lms managers", "error", err)
		return nil, err
	}
	active := make([]*User, 0, len(users))
	for _, u := range users {
		if u.IsActiveUser() {
			active = append(active, u)
		}
	}
	return active, nil
}

// ListEmployees returns the directory for an LMS manager or admin caller.
func (s *Service) ListEmployees(callerRole Role) ([]ProfileResponse, error) {
	if !callerRole.CanViewAllEmployees() {
		return nil, internal.NewForbiddenError("lms manager access required", internal.ErrCodeUnauthorizedDecision)
	}

	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	profiles := make([]ProfileResponse, 0, len(users))
	for _, u := range users {
		if callerRole != RoleAdmin && u.Role == RoleAdmin {
			continue
		}
		profiles = append(profiles, u.ToProfile())
	}
	return profiles, nil
}

// IsManagerOf reports whether managerID is the direct manager of userID.
func (s *Service) IsManagerOf(managerID, userID int64) bool {
	u, err := s.repo.GetByID(userID)
	if err != nil || u.ManagerID == nil {
		return false
	}
	return *u.ManagerID == managerID
}
