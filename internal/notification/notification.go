package notification

import (
	"errors"
	"time"

	notificationDatamodel "github.com/corelearn/training-management/internal/core/datamodel/notification"
)

// Type is the closed set of notification kinds emitted by the workflow and
// the certificate tracker.
type Type string

const (
	TypeRegistration Type = "registration"
	TypeApproval     Type = "approval"
	TypeRejection    Type = "rejection"
	TypeReminder     Type = "reminder"
	TypeCertificate  Type = "certificate"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
	Read      bool      `json:"read"`
	ActionURL *string   `json:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds an unread notification row. Workflow callers persist it inside
// the same transaction as the state change it announces.
func New(userID int64, typ Type, title, message string, actionURL *string, now time.Time) *Notification {
	return &Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Date:      now,
		Read:      false,
		ActionURL: actionURL,
		CreatedAt: now,
	}
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Date:      n.Date,
		Read:      n.Read,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      Type(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Date:      n.Date,
		Read:      n.Read,
		ActionURL: n.ActionURL,
		CreatedAt: n.CreatedAt,
	}
}

func FromDataModelSlice(notifications []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(notifications))
	for i, n := range notifications {
		result[i] = FromDataModel(n)
	}
	return result
}
