package notification

import "log/slog"

type RepositoryAPI interface {
	Create(n *Notification) error
	GetByID(id int64) (*Notification, error)
	GetByUserID(userID int64) ([]*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(id, userID int64) error
	MarkAllRead(userID int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create records a notification outside the workflow transactions. Workflow
// transitions persist theirs through the registration repository instead, so
// they commit atomically with the status change.
func (s *Service) Create(n *Notification) error {
	if err := s.repo.Create(n); err != nil {
		s.logger.Error("failed to create notification", "error", err, "user_id", n.UserID)
		return err
	}
	return nil
}

// ListForUser returns the user's notifications, newest first, with the
// unread count.
func (s *Service) ListForUser(userID int64) ([]*Notification, int64, error) {
	notifications, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		s.logger.Error("failed to count unread notifications", "error", err, "user_id", userID)
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkRead marks a single notification as read. The user scope on the
// update keeps one user from touching another's notifications.
func (s *Service) MarkRead(id, userID int64) error {
	if err := s.repo.MarkRead(id, userID); err != nil {
		if err != ErrNotFound {
			s.logger.Error("failed to mark notification read", "error", err, "notification_id", id)
		}
		return err
	}
	return nil
}

func (s *Service) MarkAllRead(userID int64) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		s.logger.Error("failed to mark notifications read", "error", err, "user_id", userID)
		return err
	}
	return nil
}
