package postgres

import (
	"time"

	"github.com/corelearn/training-management/internal/certificate"
	registrationDatamodel "github.com/corelearn/training-management/internal/core/datamodel/registration"
	trainingDatamodel "github.com/corelearn/training-management/internal/core/datamodel/training"
	"github.com/corelearn/training-management/internal/notification"
	"github.com/corelearn/training-management/internal/registration"
	"gorm.io/gorm"
)

// RegistrationRepository implements registration.RepositoryAPI using GORM.
// Transitions are guarded with conditional UPDATEs so concurrent decisions
// on the same registration serialize on the row: exactly one guard matches.
type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) registration.RepositoryAPI {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Create(reg *registration.Registration, notif *notification.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		dm := registration.ToDataModel(reg)
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		reg.ID = dm.ID

		return tx.Create(notification.ToDataModel(notif)).Error
	})
}

func (r *RegistrationRepository) GetByID(id int64) (*registration.Registration, error) {
	var dm registrationDatamodel.Registration
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, registration.ErrNotFound
		}
		return nil, err
	}
	return registration.FromDataModel(&dm), nil
}

func (r *RegistrationRepository) GetByUserID(userID int64) ([]*registration.Registration, error) {
	var dms []*registrationDatamodel.Registration
	err := r.db.Where("user_id = ?", userID).
		Order("registration_date DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return registration.FromDataModelSlice(dms), nil
}

func (r *RegistrationRepository) GetAll() ([]*registration.Registration, error) {
	var dms []*registrationDatamodel.Registration
	err := r.db.Order("id ASC").Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return registration.FromDataModelSlice(dms), nil
}

func (r *RegistrationRepository) GetPendingForManager(managerID int64) ([]*registration.Registration, error) {
	var dms []*registrationDatamodel.Registration
	err := r.db.Where("manager_id = ? AND status = ?", managerID, string(registration.StatusPendingManager)).
		Order("registration_date ASC"). // FIFO for approvals
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return registration.FromDataModelSlice(dms), nil
}

func (r *RegistrationRepository) GetPendingLMS() ([]*registration.Registration, error) {
	var dms []*registrationDatamodel.Registration
	err := r.db.Where("status = ?", string(registration.StatusPendingLMS)).
		Order("registration_date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return registration.FromDataModelSlice(dms), nil
}

func (r *RegistrationRepository) HasActiveRegistration(userID, trainingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&registrationDatamodel.Registration{}).
		Where("user_id = ? AND training_id = ? AND status IN ?",
			userID, trainingID, activeStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RegistrationRepository) AdvanceToLMS(id, lmsManagerID int64) error {
	result := r.db.Model(&registrationDatamodel.Registration{}).
		Where("id = ? AND status = ?", id, string(registration.StatusPendingManager)).
		Updates(map[string]interface{}{
			"status":         string(registration.StatusPendingLMS),
			"lms_manager_id": lmsManagerID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return registration.ErrInvalidTransition
	}
	return nil
}

func (r *RegistrationRepository) Reject(id int64, from registration.Status, reason string, notif *notification.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&registrationDatamodel.Registration{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]interface{}{
				"status":           string(registration.StatusRejected),
				"rejection_reason": reason,
				"decided_at":       now,
				"updated_at":       now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return registration.ErrInvalidTransition
		}

		return tx.Create(notification.ToDataModel(notif)).Error
	})
}

func (r *RegistrationRepository) ApproveAndIssue(id, trainingID, deciderID int64, cert *certificate.Certificate, notif *notification.Notification) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Authoritative capacity check: the seat increment only succeeds
		// while a seat is free, so concurrent approvals for the last seat
		// cannot both commit.
		seat := tx.Model(&trainingDatamodel.Training{}).
			Where("id = ? AND current_participants < max_participants", trainingID).
			Updates(map[string]interface{}{
				"current_participants": gorm.Expr("current_participants + 1"),
				"updated_at":           time.Now(),
			})
		if seat.Error != nil {
			return seat.Error
		}
		if seat.RowsAffected == 0 {
			return registration.ErrCapacityExceeded
		}

		now := time.Now()
		result := tx.Model(&registrationDatamodel.Registration{}).
			Where("id = ? AND status = ?", id, string(registration.StatusPendingLMS)).
			Updates(map[string]interface{}{
				"status":         string(registration.StatusApproved),
				"lms_manager_id": deciderID,
				"decided_at":     now,
				"updated_at":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return registration.ErrInvalidTransition
		}

		if err := tx.Create(certificate.ToDataModel(cert)).Error; err != nil {
			return err
		}

		return tx.Create(notification.ToDataModel(notif)).Error
	})
}

func (r *RegistrationRepository) Cancel(id int64, from registration.Status, trainingID int64, releaseSeat bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&registrationDatamodel.Registration{}).
			Where("id = ? AND status = ?", id, string(from)).
			Updates(map[string]interface{}{
				"status":     string(registration.StatusCancelled),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return registration.ErrInvalidTransition
		}

		if releaseSeat {
			return tx.Model(&trainingDatamodel.Training{}).
				Where("id = ? AND current_participants > 0", trainingID).
				Updates(map[string]interface{}{
					"current_participants": gorm.Expr("current_participants - 1"),
					"updated_at":           time.Now(),
				}).Error
		}
		return nil
	})
}

func activeStatuses() []string {
	return []string{
		string(registration.StatusPendingManager),
		string(registration.StatusPendingLMS),
		string(registration.StatusApproved),
	}
}
