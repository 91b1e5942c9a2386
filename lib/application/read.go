package application

import (
	applicationstore "sabbatical-backend/lib/application/store"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"

	log "github.com/sirupsen/logrus"
)

func (i impl) Get(actor models.Actor, id string) (applicationapimodels.ApplicationView, error) {
	logger := log.WithField("application_id", id)
	stores := i.uow.Stores()
	rec, err := Load(stores, id)
	if err != nil {
		logError(logger, err, "failed to get application")
		return applicationapimodels.ApplicationView{}, err
	}
	tasks, err := stores.Approvals.List(id)
	if err != nil {
		err = StoreError(err, "list approvals")
		logError(logger, err, "failed to get application")
		return applicationapimodels.ApplicationView{}, err
	}
	allowed, err := i.access.CanView(actor, *rec, tasks)
	if err != nil {
		logError(logger, err, "failed to check application access")
		return applicationapimodels.ApplicationView{}, err
	}
	if !allowed {
		return applicationapimodels.ApplicationView{}, apperrors.Forbidden("You do not have access to this application")
	}
	return i.view(actor, *rec), nil
}

func (i impl) List(actor models.Actor, request applicationapimodels.ListRequest) ([]applicationapimodels.ApplicationView, int64, error) {
	logger := log.WithField("actor", actor.Email)
	if err := request.Validate(); err != nil {
		return nil, 0, err
	}
	visible, err := i.access.VisibleEmails(actor)
	if err != nil {
		logError(logger, err, "failed to resolve visible applications")
		return nil, 0, err
	}
	page, limit := request.GetPage()
	list, rowCount, err := i.uow.Stores().Applications.List(applicationstore.Filter{
		Status:        request.Status,
		VisibleEmails: visible,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		err = StoreError(err, "list applications")
		logError(logger, err, "failed to list applications")
		return nil, 0, err
	}
	result := make([]applicationapimodels.ApplicationView, 0, len(list))
	for _, rec := range list {
		result = append(result, i.view(actor, rec))
	}
	return result, rowCount, nil
}
