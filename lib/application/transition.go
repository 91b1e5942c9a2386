package application

import (
	applicationstore "sabbatical-backend/lib/application/store"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/workflow"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// StoreError classifies a storage failure as unavailable unless it already carries a kind.
func StoreError(err error, msg string) error {
	if _, ok := apperrors.KindOf(err); ok {
		return err
	}
	return apperrors.Unavailable(err, msg)
}

// Load reads an application or returns a not found error.
func Load(stores unitofwork.Stores, id string) (*dbmodels.Application, error) {
	rec, err := stores.Applications.GetByID(id)
	return loaded(id, rec, err)
}

// LoadForUpdate is Load for use inside a transaction. The row stays locked until commit,
// so transitions of one application, sign-off after the last approval included, run one at a time.
func LoadForUpdate(stores unitofwork.Stores, id string) (*dbmodels.Application, error) {
	rec, err := stores.Applications.GetByIDForUpdate(id)
	return loaded(id, rec, err)
}

func loaded(id string, rec *dbmodels.Application, err error) (*dbmodels.Application, error) {
	if err != nil {
		return nil, StoreError(err, "get application")
	}
	if rec == nil {
		return nil, apperrors.NotFound("Application %v not found", id)
	}
	return rec, nil
}

func HistoryEntry(actor models.Actor, action dbmodels.HistoryAction, notes string) dbmodels.ApprovalHistory {
	return dbmodels.ApprovalHistory{
		Action:     action,
		ActorEmail: actor.Email,
		ActorName:  actor.DisplayName(),
		Notes:      notes,
	}
}

func systemEntry(action dbmodels.HistoryAction, notes string) dbmodels.ApprovalHistory {
	return dbmodels.ApprovalHistory{
		Action:     action,
		ActorEmail: models.SystemUser,
		ActorName:  models.SystemUser,
		Notes:      notes,
	}
}

// apply writes a resolved step with a compare-and-set on the status and appends the history entry.
// The caller's transaction rolls both back on any error.
func apply(stores unitofwork.Stores, rec *dbmodels.Application, step workflow.Step, patch applicationstore.Patch, entry dbmodels.ApprovalHistory) error {
	patch.Status = &step.To
	ok, err := stores.Applications.Transition(rec.ID, step.From, patch)
	if err != nil {
		return StoreError(err, "update application status")
	}
	if !ok {
		return apperrors.Conflict(apperrors.StageMessage)
	}
	entry.ApplicationID = rec.ID
	if step.From != step.To {
		entry.Changes.Description = "status changed"
		entry.Changes.Add("status", step.From, step.To)
	}
	if _, err = stores.History.Create(entry); err != nil {
		return StoreError(err, "write application history")
	}
	patch.Apply(rec)
	return nil
}

func logError(logger *log.Entry, err error, msg string) {
	if kind, ok := apperrors.KindOf(err); ok && kind != apperrors.KindUnavailable {
		logger.WithError(err).Info(msg)
		return
	}
	logger.WithError(err).Error(msg)
}
