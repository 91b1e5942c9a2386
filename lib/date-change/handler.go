package datechange

import (
	"context"
	"sabbatical-backend/config"
	"sabbatical-backend/db"
	"sabbatical-backend/lib/application"
	applicationstore "sabbatical-backend/lib/application/store"
	"sabbatical-backend/lib/conflicts"
	filestorage "sabbatical-backend/lib/file-storage"
	"sabbatical-backend/lib/notification"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	initchecker "sabbatical-backend/lib/utils/init-checker"
	"sabbatical-backend/models"
	datechangeapimodels "sabbatical-backend/models/api/date-change"
	dbmodels "sabbatical-backend/models/db"
	"time"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Request(actor models.Actor, applicationID string, request datechangeapimodels.CreateRequest) (datechangeapimodels.DateChangeView, error)
	List(actor models.Actor, applicationID string) ([]datechangeapimodels.DateChangeView, error)
	Review(actor models.Actor, applicationID, requestID string, request datechangeapimodels.ReviewRequest) (datechangeapimodels.DateChangeView, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"staff directory", staffdirectory.Instance,
		"notifier", notification.Instance,
	)
	Instance = NewInstance(
		unitofwork.NewInstance(db.DB),
		staffdirectory.Instance,
		notification.Instance,
		conflicts.Policy{BlockThreshold: config.Conf.Policy.ConflictBlockThreshold},
		filestorage.Instance,
	)
}

// NewInstance takes a nil letters provider when approval letters are not archived.
func NewInstance(uow unitofwork.Provider, directory staffdirectory.Provider, notifier notification.Provider, policy conflicts.Policy, letters filestorage.Provider) Provider {
	return &impl{
		uow:      uow,
		access:   application.NewAccess(directory),
		notifier: notifier,
		policy:   policy,
		letters:  letters,
	}
}

type impl struct {
	uow      unitofwork.Provider
	access   application.Access
	notifier notification.Provider
	policy   conflicts.Policy
	letters  filestorage.Provider
}

func (i impl) Request(actor models.Actor, applicationID string, request datechangeapimodels.CreateRequest) (datechangeapimodels.DateChangeView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": applicationID,
		"actor":          actor.Email,
	})
	if err := request.Validate(); err != nil {
		return datechangeapimodels.DateChangeView{}, err
	}
	var rec dbmodels.DateChangeRequest
	var app dbmodels.Application
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := application.LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		app = *current
		if !app.IsOwner(actor.Email) {
			return apperrors.Forbidden("Only the applicant can request a date change")
		}
		if !app.Status.AllowDateChange() {
			return apperrors.Forbidden(apperrors.StageMessage)
		}
		start, end, err := request.Dates(app.LeaveOption)
		if err != nil {
			return err
		}
		pending, err := stores.DateChanges.GetPending(applicationID)
		if err != nil {
			return application.StoreError(err, "get pending date change")
		}
		if pending != nil {
			return apperrors.Conflict("A date change request is already pending for this application")
		}
		rec = dbmodels.DateChangeRequest{
			ApplicationID: applicationID,
			RequestedBy:   actor.Email,
			CurrentStart:  app.RequestedStartDate,
			CurrentEnd:    app.RequestedEndDate,
			NewStart:      *dbmodels.NewDate(start),
			NewEnd:        *dbmodels.NewDate(end),
			Reason:        request.Reason,
			State:         models.DCStatePending,
		}
		if rec.ID, err = stores.DateChanges.Create(rec); err != nil {
			return application.StoreError(err, "create date change request")
		}
		entry := application.HistoryEntry(actor, dbmodels.HistoryDateChangeRequest, request.Reason)
		entry.ApplicationID = applicationID
		if _, err = stores.History.Create(entry); err != nil {
			return application.StoreError(err, "write application history")
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("date change request rejected")
		return datechangeapimodels.DateChangeView{}, err
	}
	rec.CreatedAt = time.Now()
	logger.WithField("request_id", rec.ID).Info("date change requested")
	i.notify(notification.TplDateChangeRequested, app, rec, nil, notification.TeamTalent, notification.TeamHR)
	return datechangeapimodels.DateChangeConvert(rec), nil
}

func (i impl) List(actor models.Actor, applicationID string) ([]datechangeapimodels.DateChangeView, error) {
	logger := log.WithField("application_id", applicationID)
	stores := i.uow.Stores()
	app, err := application.Load(stores, applicationID)
	if err != nil {
		return nil, err
	}
	allowed, err := i.access.CanView(actor, *app, nil)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.Forbidden("You do not have access to this application")
	}
	list, err := stores.DateChanges.List(applicationID)
	if err != nil {
		logger.WithError(err).Error("failed to list date change requests")
		return nil, application.StoreError(err, "list date change requests")
	}
	result := make([]datechangeapimodels.DateChangeView, 0, len(list))
	for _, rec := range list {
		result = append(result, datechangeapimodels.DateChangeConvert(rec))
	}
	return result, nil
}

func (i impl) Review(actor models.Actor, applicationID, requestID string, request datechangeapimodels.ReviewRequest) (datechangeapimodels.DateChangeView, error) {
	logger := log.WithFields(log.Fields{
		"application_id": applicationID,
		"request_id":     requestID,
		"reviewer":       actor.Email,
	})
	if err := request.Validate(); err != nil {
		return datechangeapimodels.DateChangeView{}, err
	}
	if !actor.HasAny(models.TalentRole, models.HRRole, models.AdminRole) {
		return datechangeapimodels.DateChangeView{}, apperrors.Forbidden("Your role cannot review date change requests")
	}
	state := models.DCStateDenied
	action := dbmodels.HistoryDateChangeDenied
	if request.Decision == models.DecisionApproved {
		state = models.DCStateApproved
		action = dbmodels.HistoryDateChangeApproved
	}
	var rec dbmodels.DateChangeRequest
	var app dbmodels.Application
	err := i.uow.Transaction(func(stores unitofwork.Stores) error {
		current, err := application.LoadForUpdate(stores, applicationID)
		if err != nil {
			return err
		}
		app = *current
		if app.IsOwner(actor.Email) {
			return apperrors.Forbidden("You cannot review your own date change request")
		}
		found, err := stores.DateChanges.GetByID(applicationID, requestID)
		if err != nil {
			return application.StoreError(err, "get date change request")
		}
		if found == nil {
			return apperrors.NotFound("Date change request %v not found", requestID)
		}
		rec = *found
		if rec.State != models.DCStatePending {
			return apperrors.Conflict("This date change request has already been reviewed")
		}
		entry := application.HistoryEntry(actor, action, request.Notes)
		entry.ApplicationID = applicationID
		if state == models.DCStateApproved {
			if err = i.moveDates(stores, &app, rec, &entry); err != nil {
				return err
			}
		}
		ok, err := stores.DateChanges.Resolve(applicationID, requestID, state, actor.Email, request.Notes)
		if err != nil {
			return application.StoreError(err, "resolve date change request")
		}
		if !ok {
			return apperrors.Conflict("This date change request has already been reviewed")
		}
		if _, err = stores.History.Create(entry); err != nil {
			return application.StoreError(err, "write application history")
		}
		now := time.Now()
		rec.State, rec.ReviewerEmail, rec.ReviewNotes, rec.ReviewedAt = state, &actor.Email, &request.Notes, &now
		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("date change review rejected")
		return datechangeapimodels.DateChangeView{}, err
	}
	logger.WithField("state", state).Info("date change reviewed")
	if state == models.DCStateApproved && app.Status.AllowLetter() {
		i.discardLetter(logger, app.ID)
	}
	i.notify(notification.TplDateChangeReviewed, app, rec, []string{app.EmployeeEmail})
	return datechangeapimodels.DateChangeConvert(rec), nil
}

// moveDates applies the approved range with a compare-and-set on the unchanged status.
func (i impl) moveDates(stores unitofwork.Stores, app *dbmodels.Application, rec dbmodels.DateChangeRequest, entry *dbmodels.ApprovalHistory) error {
	if !app.Status.AllowDateChange() {
		return apperrors.Forbidden(apperrors.StageMessage)
	}
	start, end := time.Time(rec.NewStart), time.Time(rec.NewEnd)
	if err := stores.Applications.LockKeys(applicationstore.SiteLockKey(app.Site)); err != nil {
		return application.StoreError(err, "lock site")
	}
	report, err := application.SiteReport(stores, i.policy, app.Site, start, end, app.ID)
	if err != nil {
		return err
	}
	if report.Tier == conflicts.TierBlocked {
		return apperrors.Conflict("%s", report.Message)
	}
	weeks := models.DurationWeeks(start, end)
	patch := applicationstore.Patch{
		RequestedStartDate: dbmodels.NewDate(start),
		RequestedEndDate:   dbmodels.NewDate(end),
		DurationWeeks:      &weeks,
	}
	ok, err := stores.Applications.Transition(app.ID, app.Status, patch)
	if err != nil {
		return application.StoreError(err, "update application dates")
	}
	if !ok {
		return apperrors.Conflict(apperrors.StageMessage)
	}
	oldStart, _ := app.StartDate()
	oldEnd, _ := app.EndDate()
	entry.Changes.Description = "sabbatical dates changed"
	entry.Changes.Add("requested_start_date", oldStart.Format(time.DateOnly), start.Format(time.DateOnly))
	entry.Changes.Add("requested_end_date", oldEnd.Format(time.DateOnly), end.Format(time.DateOnly))
	entry.Changes.Add("duration_weeks", app.DurationWeeks, weeks)
	patch.Apply(app)
	return nil
}

// discardLetter drops the archived approval letter, which still shows the old dates.
func (i impl) discardLetter(logger *log.Entry, applicationID string) {
	if i.letters == nil {
		return
	}
	if err := i.letters.DeleteLetter(context.Background(), applicationID); err != nil {
		logger.WithError(err).Error("failed to discard archived approval letter")
	}
}

func (i impl) notify(tag notification.Tag, app dbmodels.Application, rec dbmodels.DateChangeRequest, to []string, teams ...notification.Team) {
	if i.notifier == nil {
		return
	}
	i.notifier.Send(notification.Message{
		Template:      tag,
		ApplicationID: app.ID,
		To:            to,
		Teams:         teams,
		Data: models.TemplateData{
			ApplicationID: app.ID,
			EmployeeName:  app.EmployeeName,
			EmployeeEmail: app.EmployeeEmail,
			Site:          app.Site,
			JobTitle:      app.JobTitle,
			StartDate:     time.Time(rec.NewStart),
			EndDate:       time.Time(rec.NewEnd),
			DurationWeeks: models.DurationWeeks(time.Time(rec.NewStart), time.Time(rec.NewEnd)),
			Status:        string(rec.State),
			Notes:         notes(rec),
		},
	})
}

func notes(rec dbmodels.DateChangeRequest) string {
	if rec.ReviewNotes != nil {
		return *rec.ReviewNotes
	}
	return rec.Reason
}
