package application

import (
	"context"
	applicationstore "sabbatical-backend/lib/application/store"
	"sabbatical-backend/lib/notification"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/workflow"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	dbmodels "sabbatical-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func (i impl) Review(actor models.Actor, id string, request applicationapimodels.ReviewRequest) (applicationapimodels.ApplicationView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"reviewer":       actor.Email,
	})
	if err := request.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	var rec dbmodels.Application
	var step workflow.Step
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		step, err = workflow.Resolve(current.Status, workflow.ActionReview, request.Decision, i.caller(actor, *current))
		if err != nil {
			return err
		}
		if current.IsOwner(actor.Email) {
			return apperrors.Forbidden("You cannot review your own application")
		}
		now := i.now()
		review := dbmodels.StageReview{
			Reviewer:     &actor.Email,
			ReviewerName: strPtr(actor.DisplayName()),
			Decision:     &step.Decision,
			Notes:        strPtr(request.Notes),
			ReviewedAt:   &now,
		}
		patch := applicationstore.Patch{}
		action := dbmodels.HistoryTalentReview
		switch step.Stage {
		case workflow.StageTalent:
			patch.TalentReview = &review
		case workflow.StageHR:
			patch.HRReview = &review
			action = dbmodels.HistoryHRReview
		}
		if err = apply(stores, current, step, patch, HistoryEntry(actor, action, request.Notes)); err != nil {
			return err
		}
		rec = *current
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to review application")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.WithField("status", rec.Status).Info("application reviewed")

	data := i.templateData(rec)
	data.ReviewerName = actor.DisplayName()
	data.Notes = request.Notes
	owner := []string{rec.EmployeeEmail}
	switch {
	case step.Stage == workflow.StageTalent && step.Decision == models.DecisionApproved:
		i.notify(notification.TplTalentApproved, rec, data, owner)
	case step.Stage == workflow.StageTalent:
		i.notify(notification.TplTalentDenied, rec, data, owner)
	case step.Decision == models.DecisionApproved:
		i.archiveLetter(context.Background(), rec)
		i.notify(notification.TplHRApproved, rec, data, owner)
	default:
		i.notify(notification.TplHRDenied, rec, data, owner)
	}
	return i.view(actor, rec), nil
}

func (i impl) Withdraw(actor models.Actor, id string, request applicationapimodels.WithdrawRequest) (applicationapimodels.ApplicationView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"actor":          actor.Email,
	})
	if err := request.Validate(); err != nil {
		return applicationapimodels.ApplicationView{}, err
	}
	var rec dbmodels.Application
	var approvers []string
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		step, err := workflow.Resolve(current.Status, workflow.ActionWithdraw, "", i.caller(actor, *current))
		if err != nil {
			return err
		}
		tasks, err := stores.Approvals.List(id)
		if err != nil {
			return StoreError(err, "list approvals")
		}
		for _, task := range tasks {
			if task.State == models.AStatePending {
				approvers = append(approvers, task.ApproverEmail)
			}
		}
		if err = apply(stores, current, step, applicationstore.Patch{}, HistoryEntry(actor, dbmodels.HistoryWithdrawn, request.Reason)); err != nil {
			return err
		}
		rec = *current
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to withdraw application")
		return applicationapimodels.ApplicationView{}, err
	}
	logger.Info("application withdrawn")

	data := i.templateData(rec)
	data.Notes = request.Reason
	i.notify(notification.TplWithdrawn, rec, data, approvers, notification.TeamTalent)
	return i.view(actor, rec), nil
}

func strPtr(value string) *string {
	return &value
}
