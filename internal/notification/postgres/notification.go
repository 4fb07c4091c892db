package postgres

import (
	"github.com/corelearn/training-management/internal/notification"
	notificationDatamodel "github.com/corelearn/training-management/internal/core/datamodel/notification"
	"gorm.io/gorm"
)

// NotificationRepository implements notification.RepositoryAPI using GORM.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	dm := notification.ToDataModel(n)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	n.ID = dm.ID
	return nil
}

func (r *NotificationRepository) GetByID(id int64) (*notification.Notification, error) {
	var dm notificationDatamodel.Notification
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}
	return notification.FromDataModel(&dm), nil
}

func (r *NotificationRepository) GetByUserID(userID int64) ([]*notification.Notification, error) {
	var dms []*notificationDatamodel.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(dms), nil
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(id, userID int64) error {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
