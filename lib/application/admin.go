package application

import (
	"context"
	applicationstore "sabbatical-backend/lib/application/store"
	pdfexport "sabbatical-backend/lib/export/pdf"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	dbmodels "sabbatical-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Delete removes an application with its approvals and date change requests.
// The history rows stay, closed by a "deleted" entry.
func (i impl) Delete(actor models.Actor, id string) error {
	logger := log.WithFields(log.Fields{
		"application_id": id,
		"actor":          actor.Email,
	})
	if !actor.IsAdmin() {
		return apperrors.Forbidden("Only an administrator can delete applications")
	}
	var rec dbmodels.Application
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := LoadForUpdate(stores, id)
		if err != nil {
			return err
		}
		rec = *current
		if err = stores.Approvals.DeleteByApplication(id); err != nil {
			return StoreError(err, "delete approvals")
		}
		if err = stores.DateChanges.DeleteByApplication(id); err != nil {
			return StoreError(err, "delete date change requests")
		}
		if err = stores.Applications.Delete(id); err != nil {
			return StoreError(err, "delete application")
		}
		entry := HistoryEntry(actor, dbmodels.HistoryDeleted, "Application deleted by administrator")
		entry.ApplicationID = id
		entry.Changes.Description = "application deleted"
		entry.Changes.Add("status", current.Status, nil)
		if _, err = stores.History.Create(entry); err != nil {
			return StoreError(err, "write application history")
		}
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to delete application")
		return err
	}
	logger.WithFields(log.Fields{
		"employee_email": rec.EmployeeEmail,
		"status":         rec.Status,
	}).Warn("application deleted by administrator")
	if i.letters != nil && rec.Status.AllowLetter() {
		if err = i.letters.DeleteLetter(context.Background(), id); err != nil {
			logger.WithError(err).Error("failed to delete archived approval letter")
		}
	}
	return nil
}

func (i impl) Export(actor models.Actor, request applicationapimodels.ExportRequest) ([]byte, error) {
	logger := log.WithField("actor", actor.Email)
	if err := request.Validate(); err != nil {
		return nil, err
	}
	visible, err := i.access.VisibleEmails(actor)
	if err != nil {
		logError(logger, err, "failed to resolve visible applications")
		return nil, err
	}
	list, _, err := i.uow.Stores().Applications.List(applicationstore.Filter{
		Status:        request.Status,
		VisibleEmails: visible,
	})
	if err != nil {
		err = StoreError(err, "list applications")
		logError(logger, err, "failed to export applications")
		return nil, err
	}
	buf, err := i.exporter.ExportApplicationList(list)
	if err != nil {
		logger.WithError(err).Error("failed to build xlsx export")
		return nil, err
	}
	return buf.Bytes(), nil
}

// Letter serves the archived approval letter and generates one when nothing is archived yet.
func (i impl) Letter(ctx context.Context, actor models.Actor, id string) ([]byte, error) {
	logger := log.WithField("application_id", id)
	stores := i.uow.Stores()
	rec, err := Load(stores, id)
	if err != nil {
		logError(logger, err, "failed to get application")
		return nil, err
	}
	allowed, err := i.access.CanView(actor, *rec, nil)
	if err != nil {
		logError(logger, err, "failed to check application access")
		return nil, err
	}
	if !allowed {
		return nil, apperrors.Forbidden("You do not have access to this application")
	}
	if !rec.Status.AllowLetter() {
		return nil, apperrors.Forbidden("The approval letter is available once the sabbatical is approved")
	}
	if i.letters != nil {
		body, err := i.letters.GetLetter(ctx, id)
		if err != nil {
			logger.WithError(err).Warn("failed to read archived letter")
		}
		if len(body) != 0 {
			return body, nil
		}
	}
	return i.archiveLetter(ctx, *rec)
}

func (i impl) renderLetter(rec dbmodels.Application) ([]byte, error) {
	data := i.templateData(rec)
	data.ApproverName = i.settings.HRApprover.Name
	if rec.HRReview.ReviewerName != nil && *rec.HRReview.ReviewerName != "" {
		data.ApproverName = *rec.HRReview.ReviewerName
	}
	body, err := pdfexport.GenerateApprovalLetter(i.settings.Organization, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate approval letter")
	}
	return body, nil
}

// archiveLetter renders the letter and stores it when object storage is configured.
func (i impl) archiveLetter(ctx context.Context, rec dbmodels.Application) ([]byte, error) {
	logger := log.WithField("application_id", rec.ID)
	body, err := i.renderLetter(rec)
	if err != nil {
		logger.WithError(err).Error("failed to render approval letter")
		return nil, err
	}
	if i.letters == nil {
		return body, nil
	}
	if err = i.letters.UploadLetter(ctx, rec.ID, body); err != nil {
		logger.WithError(err).Warn("failed to archive approval letter")
	}
	return body, nil
}
