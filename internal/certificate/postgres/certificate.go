package postgres

import (
	"time"

	"github.com/corelearn/training-management/internal/certificate"
	certificateDatamodel "github.com/corelearn/training-management/internal/core/datamodel/certificate"
	"gorm.io/gorm"
)

// CertificateRepository implements certificate.RepositoryAPI using GORM.
type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) certificate.RepositoryAPI {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(cert *certificate.Certificate) error {
	dm := certificate.ToDataModel(cert)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	cert.ID = dm.ID
	return nil
}

func (r *CertificateRepository) GetByID(id int64) (*certificate.Certificate, error) {
	var dm certificateDatamodel.Certificate
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, certificate.ErrNotFound
		}
		return nil, err
	}
	return certificate.FromDataModel(&dm), nil
}

func (r *CertificateRepository) GetByUserID(userID int64) ([]*certificate.Certificate, error) {
	var dms []*certificateDatamodel.Certificate
	err := r.db.Where("user_id = ?", userID).
		Order("issue_date DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return certificate.FromDataModelSlice(dms), nil
}

func (r *CertificateRepository) GetByUserAndTraining(userID, trainingID int64) (*certificate.Certificate, error) {
	var dm certificateDatamodel.Certificate
	err := r.db.Where("user_id = ? AND training_id = ?", userID, trainingID).
		Order("id DESC").
		First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, certificate.ErrNotFound
		}
		return nil, err
	}
	return certificate.FromDataModel(&dm), nil
}

func (r *CertificateRepository) GetExpiringWithin(now time.Time, horizonDays int) ([]*certificate.Certificate, error) {
	horizon := now.Add(time.Duration(horizonDays) * 24 * time.Hour)

	var dms []*certificateDatamodel.Certificate
	err := r.db.Where("expiry_date IS NOT NULL AND expiry_date > ? AND expiry_date <= ?", now, horizon).
		Order("expiry_date ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return certificate.FromDataModelSlice(dms), nil
}

func (r *CertificateRepository) Update(cert *certificate.Certificate) error {
	cert.UpdatedAt = time.Now()
	return r.db.Save(certificate.ToDataModel(cert)).Error
}
