package approvaltask

import (
	"sabbatical-backend/db"
	"sabbatical-backend/lib/application"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	initchecker "sabbatical-backend/lib/utils/init-checker"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	List(actor models.Actor, applicationID string) ([]applicationapimodels.ApprovalTaskView, error)
	// Inbox lists the approvals waiting for the actor.
	Inbox(actor models.Actor) ([]applicationapimodels.ApprovalInboxItem, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("staff directory", staffdirectory.Instance)
	Instance = NewInstance(unitofwork.NewInstance(db.DB), staffdirectory.Instance)
}

func NewInstance(uow unitofwork.Provider, directory staffdirectory.Provider) Provider {
	return &impl{
		uow:    uow,
		access: application.NewAccess(directory),
	}
}

type impl struct {
	uow    unitofwork.Provider
	access application.Access
}

func (i impl) List(actor models.Actor, applicationID string) ([]applicationapimodels.ApprovalTaskView, error) {
	logger := log.WithField("application_id", applicationID)
	stores := i.uow.Stores()
	rec, err := application.Load(stores, applicationID)
	if err != nil {
		logger.WithError(err).Warn("failed to get application")
		return nil, err
	}
	tasks, err := stores.Approvals.List(applicationID)
	if err != nil {
		logger.WithError(err).Error("failed to list approvals")
		return nil, application.StoreError(err, "list approvals")
	}
	allowed, err := i.access.CanView(actor, *rec, tasks)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.Forbidden("You do not have access to this application")
	}
	result := make([]applicationapimodels.ApprovalTaskView, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, applicationapimodels.ApprovalTaskConvert(task))
	}
	return result, nil
}

func (i impl) Inbox(actor models.Actor) ([]applicationapimodels.ApprovalInboxItem, error) {
	logger := log.WithField("approver", actor.Email)
	stores := i.uow.Stores()
	tasks, err := stores.Approvals.ListPendingByApprover(actor.Email)
	if err != nil {
		logger.WithError(err).Error("failed to list pending approvals")
		return nil, application.StoreError(err, "list pending approvals")
	}
	result := make([]applicationapimodels.ApprovalInboxItem, 0, len(tasks))
	for _, task := range tasks {
		rec, err := stores.Applications.GetByID(task.ApplicationID)
		if err != nil {
			logger.WithError(err).Error("failed to get application")
			return nil, application.StoreError(err, "get application")
		}
		if rec == nil {
			continue
		}
		result = append(result, applicationapimodels.ApprovalInboxItem{
			Approval:    applicationapimodels.ApprovalTaskConvert(task),
			Application: application.View(actor, *rec),
		})
	}
	return result, nil
}
