package approvaltaskstore

import (
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalTask) (id string, err error)
	GetByID(applicationID, id string) (rec *dbmodels.ApprovalTask, err error)
	// Decide records a decision only while the task is still pending.
	Decide(applicationID, id string, state models.ApprovalState, comment string) (ok bool, err error)
	ResetAll(applicationID string) error
	DeleteByApplication(applicationID string) error
	List(applicationID string) (list []dbmodels.ApprovalTask, err error)
	// ListPendingByApprover returns undecided tasks whose application is waiting for plan sign-off.
	ListPendingByApprover(email string) (list []dbmodels.ApprovalTask, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalTask) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(applicationID, id string) (*dbmodels.ApprovalTask, error) {
	rec := dbmodels.ApprovalTask{}
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

func (i impl) Decide(applicationID, id string, state models.ApprovalState, comment string) (bool, error) {
	tx := i.db.
		Model(&dbmodels.ApprovalTask{}).
		Where("id = ?", id).
		Where("application_id = ?", applicationID).
		Where("state = ?", models.AStatePending).
		Updates(map[string]interface{}{
			"state":      state,
			"comment":    comment,
			"decided_at": gorm.Expr("NOW()"),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (i impl) ResetAll(applicationID string) error {
	err := i.db.
		Model(&dbmodels.ApprovalTask{}).
		Where("application_id = ?", applicationID).
		Updates(map[string]interface{}{
			"state":      models.AStatePending,
			"comment":    "",
			"decided_at": nil,
		}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) DeleteByApplication(applicationID string) error {
	rec := dbmodels.ApprovalTask{}
	err := i.db.Model(&dbmodels.ApprovalTask{}).
		Where("application_id = ?", applicationID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(applicationID string) (list []dbmodels.ApprovalTask, err error) {
	list = []dbmodels.ApprovalTask{}
	err = i.db.
		Where("application_id = ?", applicationID).
		Order("position ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListPendingByApprover(email string) (list []dbmodels.ApprovalTask, err error) {
	list = []dbmodels.ApprovalTask{}
	err = i.db.
		Joins("JOIN applications ON applications.id = approval_tasks.application_id").
		Where("LOWER(approval_tasks.approver_email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("approval_tasks.state = ?", models.AStatePending).
		Where("applications.status = ?", models.StatusPlanSubmitted).
		Order("approval_tasks.created_at ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
