package legacyimport

import (
	"fmt"
	"io"
	"sabbatical-backend/db"
	"sabbatical-backend/lib/application"
	"sabbatical-backend/lib/eligibility"
	xlsexport "sabbatical-backend/lib/export/xls"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	initchecker "sabbatical-backend/lib/utils/init-checker"
	"sabbatical-backend/models"
	legacyimportapimodels "sabbatical-backend/models/api/legacy-import"
	dbmodels "sabbatical-backend/models/db"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Import loads intake form responses exported as xlsx.
	Import(actor models.Actor, r io.Reader) (legacyimportapimodels.ImportResult, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("staff directory", staffdirectory.Instance)
	Instance = NewInstance(unitofwork.NewInstance(db.DB), staffdirectory.Instance)
}

func NewInstance(uow unitofwork.Provider, directory staffdirectory.Provider) Provider {
	return &impl{
		uow:       uow,
		directory: directory,
		now:       time.Now,
	}
}

type impl struct {
	uow       unitofwork.Provider
	directory staffdirectory.Provider
	now       func() time.Time
}

func (i impl) Import(actor models.Actor, r io.Reader) (legacyimportapimodels.ImportResult, error) {
	if !actor.IsAdmin() {
		return legacyimportapimodels.ImportResult{}, apperrors.Forbidden("Only administrators can import applications")
	}
	rows, err := xlsexport.ReadRecords(r)
	if err != nil {
		return legacyimportapimodels.ImportResult{}, apperrors.Validation("Unable to read the uploaded file: %v", err)
	}
	result := legacyimportapimodels.ImportResult{
		Imported: []legacyimportapimodels.RowResult{},
		Skipped:  []legacyimportapimodels.RowResult{},
	}
	for idx, row := range rows {
		// row 1 is the header
		rowNum := idx + 2
		rec := canonical.LegacyApplicationMapping.Apply(row)
		email := strings.ToLower(rec.String(canonical.FieldEmail))
		logger := log.WithFields(log.Fields{
			"row":   rowNum,
			"email": email,
		})
		id, err := i.importRow(actor, rec, email)
		if err != nil {
			kind, known := apperrors.KindOf(err)
			if !known || kind == apperrors.KindUnavailable {
				logger.WithError(err).Error("failed to import application")
				return result, err
			}
			logger.WithError(err).Info("application row skipped")
			result.Skipped = append(result.Skipped, legacyimportapimodels.RowResult{
				Row:    rowNum,
				Email:  email,
				Reason: apperrors.PublicMessage(err),
			})
			continue
		}
		result.Imported = append(result.Imported, legacyimportapimodels.RowResult{
			Row:           rowNum,
			Email:         email,
			ApplicationID: id,
		})
	}
	log.WithFields(log.Fields{
		"imported": len(result.Imported),
		"skipped":  len(result.Skipped),
	}).Info("legacy applications imported")
	return result, nil
}

func (i impl) importRow(actor models.Actor, rec canonical.Record, email string) (string, error) {
	if email == "" {
		return "", apperrors.Validation("email is required")
	}
	option, ok := models.ParseLeaveLabel(rec.String(canonical.FieldLeaveOption))
	if !ok {
		return "", apperrors.Validation("unknown leave option %q", rec.String(canonical.FieldLeaveOption))
	}
	info, _ := option.Info()
	start := rec.Date(canonical.FieldStartDate)
	if start == nil {
		return "", apperrors.Validation("start_date is missing or not a date")
	}
	end := option.EndDate(*start)

	app := dbmodels.Application{
		EmployeeEmail:      email,
		RequestedStartDate: dbmodels.NewDate(*start),
		RequestedEndDate:   dbmodels.NewDate(end),
		DurationWeeks:      models.DurationWeeks(*start, end),
		LeaveOption:        info.Option,
		LeaveWeeks:         info.Weeks,
		SalaryPercentage:   info.SalaryPercentage,
		SabbaticalPurpose:  rec.String(canonical.FieldPurpose),
		WhyNow:             rec.String(canonical.FieldWhyNow),
		CoveragePlan:       rec.String(canonical.FieldCoveragePlan),
		Flexible:           answer(rec, canonical.FieldFlexible),
		FlexibilityDetails: rec.String(canonical.FieldFlexibilityDetails),
		ManagerDiscussed:   answer(rec, canonical.FieldManagerDiscussed),
		AdditionalComments: rec.String(canonical.FieldAdditionalComments),
		Status:             models.StatusSubmitted,
		SubmittedAt:        i.now(),
	}
	if submitted := rec.Date(canonical.FieldSubmittedAt); submitted != nil {
		app.SubmittedAt = *submitted
	}

	emp, err := i.directory.Lookup(email)
	if err != nil {
		return "", err
	}
	if emp != nil {
		app.EmployeeName = emp.FullName
		app.EmployeeNumber = emp.EmployeeNumber
		app.JobTitle = emp.JobTitle
		app.Department = emp.Department
		app.Site = emp.Site
		app.SupervisorName = emp.SupervisorName
		app.SupervisorEmail = emp.SupervisorEmail
		if emp.HireDate != nil {
			app.HireDate = dbmodels.NewDate(*emp.HireDate)
			app.YearsOfService = eligibility.YearsBetween(*emp.HireDate, app.SubmittedAt)
		}
	}
	if app.EmployeeName == "" {
		app.EmployeeName = email
	}

	err = i.uow.Transaction(func(stores unitofwork.Stores) error {
		if err := application.LockSubject(stores, email, app.Site); err != nil {
			return err
		}
		active, err := stores.Applications.ListActiveByEmail(email)
		if err != nil {
			return application.StoreError(err, "list active applications")
		}
		if len(active) != 0 {
			return apperrors.Conflict("Employee already has an active application")
		}
		app.ID = uuid.NewString()
		if app.ID, err = stores.Applications.Create(app); err != nil {
			return application.CreateError(err)
		}
		entry := application.HistoryEntry(actor, dbmodels.HistoryImported, fmt.Sprintf("Imported from intake form submitted %v", app.SubmittedAt.Format("January 2, 2006")))
		entry.ApplicationID = app.ID
		if _, err = stores.History.Create(entry); err != nil {
			return application.StoreError(err, "write application history")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return app.ID, nil
}

func answer(rec canonical.Record, field string) string {
	value, ok := rec.Bool(field)
	switch {
	case !ok:
		return rec.String(field)
	case value:
		return "Yes"
	}
	return "No"
}
