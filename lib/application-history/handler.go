package applicationhistory

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
	List(actor models.Actor, applicationID string) ([]applicationapimodels.HistoryView, error)
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

func (i impl) List(actor models.Actor, applicationID string) ([]applicationapimodels.HistoryView, error) {
	logger := log.WithField("application_id", applicationID)
	stores := i.uow.Stores()
	rec, err := stores.Applications.GetByID(applicationID)
	if err != nil {
		logger.WithError(err).Error("failed to get application")
		return nil, application.StoreError(err, "get application")
	}
	if rec == nil {
		// deleted applications keep their trail for administrators
		if !actor.IsAdmin() {
			return nil, apperrors.NotFound("Application %v not found", applicationID)
		}
	} else {
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
	}
	list, err := stores.History.List(applicationID)
	if err != nil {
		logger.WithError(err).Error("failed to list history")
		return nil, application.StoreError(err, "list history")
	}
	if rec == nil && len(list) == 0 {
		return nil, apperrors.NotFound("Application %v not found", applicationID)
	}
	result := make([]applicationapimodels.HistoryView, 0, len(list))
	for _, entry := range list {
		result = append(result, applicationapimodels.HistoryConvert(entry))
	}
	return result, nil
}
