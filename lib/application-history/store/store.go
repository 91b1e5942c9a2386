package historystore

import (
	dbmodels "sabbatical-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalHistory) (id string, err error)
	List(applicationID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(applicationID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
