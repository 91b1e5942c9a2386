package datechangestore

import (
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.DateChangeRequest) (id string, err error)
	GetByID(applicationID, id string) (rec *dbmodels.DateChangeRequest, err error)
	GetPending(applicationID string) (rec *dbmodels.DateChangeRequest, err error)
	// Resolve closes a pending request. It reports false if the request was already resolved.
	Resolve(applicationID, id string, state models.DateChangeState, reviewer, notes string) (ok bool, err error)
	List(applicationID string) (list []dbmodels.DateChangeRequest, err error)
	DeleteByApplication(applicationID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DateChangeRequest) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(applicationID, id string) (*dbmodels.DateChangeRequest, error) {
	rec := dbmodels.DateChangeRequest{}
	err := i.db.
		Where("id = ?", id).
		Where("application_id = ?", applicationID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetPending(applicationID string) (*dbmodels.DateChangeRequest, error) {
	rec := dbmodels.DateChangeRequest{}
	err := i.db.
		Where("application_id = ?", applicationID).
		Where("state = ?", models.DCStatePending).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Resolve(applicationID, id string, state models.DateChangeState, reviewer, notes string) (bool, error) {
	now := time.Now()
	tx := i.db.
		Model(&dbmodels.DateChangeRequest{}).
		Where("id = ?", id).
		Where("application_id = ?", applicationID).
		Where("state = ?", models.DCStatePending).
		Updates(map[string]interface{}{
			"state":          state,
			"reviewer_email": reviewer,
			"review_notes":   notes,
			"reviewed_at":    now,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) List(applicationID string) (list []dbmodels.DateChangeRequest, err error) {
	list = []dbmodels.DateChangeRequest{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByApplication(applicationID string) error {
	rec := dbmodels.DateChangeRequest{}
	err := i.db.Model(&dbmodels.DateChangeRequest{}).
		Where("application_id = ?", applicationID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}
