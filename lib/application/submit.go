package application

import (
	applicationstore "sabbatical-backend/lib/application/store"
	"sabbatical-backend/lib/conflicts"
	"sabbatical-backend/lib/eligibility"
	"sabbatical-backend/lib/notification"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	apimodels "sabbatical-backend/models/api"
	applicationapimodels "sabbatical-backend/models/api/application"
	staffapimodels "sabbatical-backend/models/api/staff"
	dbmodels "sabbatical-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (i impl) Submit(actor models.Actor, request applicationapimodels.SubmitRequest) (applicationapimodels.SubmitResponse, error) {
	logger := log.WithField("employee_email", actor.Email)
	if err := request.Validate(); err != nil {
		return applicationapimodels.SubmitResponse{}, err
	}
	start, end, err := request.Dates()
	if err != nil {
		return applicationapimodels.SubmitResponse{}, err
	}

	emp, err := i.directory.Lookup(actor.Email)
	if err != nil {
		logError(logger, err, "failed to look up employee")
		return applicationapimodels.SubmitResponse{}, err
	}
	if emp == nil {
		return applicationapimodels.SubmitResponse{}, apperrors.NotFound("Employee %v was not found in the staff directory", actor.Email)
	}
	now := i.now()
	elig := eligibility.Check(emp.HireDate, now, i.settings.EligibilityYears)
	if !elig.Eligible {
		return applicationapimodels.SubmitResponse{}, ineligibleError(elig, i.requiredYears())
	}

	stores := i.uow.Stores()
	if err = checkDuplicate(stores, emp.Email); err != nil {
		return applicationapimodels.SubmitResponse{}, err
	}
	report, err := i.siteReport(stores, emp.Site, start, end, "")
	if err != nil {
		logError(logger, err, "failed to check site conflicts")
		return applicationapimodels.SubmitResponse{}, err
	}
	if report.Tier == conflicts.TierBlocked {
		return applicationapimodels.SubmitResponse{}, apperrors.Conflict("%s", report.Message)
	}

	info, _ := request.LeaveOption.Info()
	rec := dbmodels.Application{
		EmployeeEmail:      strings.ToLower(strings.TrimSpace(emp.Email)),
		EmployeeName:       emp.FullName,
		EmployeeNumber:     emp.EmployeeNumber,
		YearsOfService:     elig.YearsOfService,
		JobTitle:           emp.JobTitle,
		Department:         emp.Department,
		Site:               emp.Site,
		SupervisorName:     emp.SupervisorName,
		SupervisorEmail:    emp.SupervisorEmail,
		RequestedStartDate: dbmodels.NewDate(start),
		RequestedEndDate:   dbmodels.NewDate(end),
		DurationWeeks:      models.DurationWeeks(start, end),
		LeaveOption:        info.Option,
		LeaveWeeks:         info.Weeks,
		SalaryPercentage:   info.SalaryPercentage,
		SabbaticalPurpose:  request.SabbaticalPurpose,
		WhyNow:             request.WhyNow,
		CoveragePlan:       request.CoveragePlan,
		Flexible:           yesNo(request.Flexible),
		FlexibilityDetails: request.FlexibilityDetails,
		ManagerDiscussed:   yesNo(request.ManagerDiscussed),
		AdditionalComments: request.AdditionalComments,
		Status:             models.StatusSubmitted,
		SubmittedAt:        now,
	}
	if emp.HireDate != nil {
		rec.HireDate = dbmodels.NewDate(*emp.HireDate)
	}
	if rec.EmployeeName == "" {
		rec.EmployeeName = actor.DisplayName()
	}

	err = i.uow.Transaction(func(stores unitofwork.Stores) error {
		// the pre-checks ran outside the transaction, repeat them under the locks
		if err := LockSubject(stores, rec.EmployeeEmail, rec.Site); err != nil {
			return err
		}
		if err := checkDuplicate(stores, rec.EmployeeEmail); err != nil {
			return err
		}
		locked, err := i.siteReport(stores, rec.Site, start, end, "")
		if err != nil {
			return err
		}
		if locked.Tier == conflicts.TierBlocked {
			return apperrors.Conflict("%s", locked.Message)
		}
		report = locked
		id, err := stores.Applications.Create(rec)
		if err != nil {
			return CreateError(err)
		}
		rec.ID = id
		entry := HistoryEntry(actor, dbmodels.HistorySubmitted, "Application submitted")
		entry.ApplicationID = id
		if _, err = stores.History.Create(entry); err != nil {
			return StoreError(err, "write application history")
		}
		return nil
	})
	if err != nil {
		logError(logger, err, "failed to submit application")
		return applicationapimodels.SubmitResponse{}, err
	}
	rec.CreatedAt, rec.UpdatedAt = now, now
	logger.WithField("application_id", rec.ID).Info("application submitted")

	data := i.templateData(rec)
	i.notify(notification.TplSubmittedToTalent, rec, data, nil, notification.TeamTalent)
	i.notify(notification.TplSubmittedConfirmation, rec, data, []string{rec.EmployeeEmail})

	return applicationapimodels.SubmitResponse{
		Application: i.view(actor, rec),
		Conflicts:   report,
	}, nil
}

const duplicateMessage = "You already have an active sabbatical application"

func checkDuplicate(stores unitofwork.Stores, email string) error {
	active, err := stores.Applications.ListActiveByEmail(email)
	if err != nil {
		return StoreError(err, "list active applications")
	}
	if len(active) != 0 {
		return apperrors.Conflict(duplicateMessage)
	}
	return nil
}

// LockSubject holds the employee and site advisory locks until the transaction ends.
// Submissions for one employee or one site then check duplicates and capacity one at a time.
func LockSubject(stores unitofwork.Stores, email, site string) error {
	err := stores.Applications.LockKeys(applicationstore.EmailLockKey(email), applicationstore.SiteLockKey(site))
	if err != nil {
		return StoreError(err, "lock application keys")
	}
	return nil
}

// CreateError maps a failed insert. The unique index on active applications is the last line against duplicates.
func CreateError(err error) error {
	if errors.Is(err, applicationstore.ErrDuplicateActive) {
		return apperrors.Conflict(duplicateMessage)
	}
	return StoreError(err, "create application")
}

func ineligibleError(result eligibility.Result, required int) error {
	if !result.Known {
		return apperrors.Validation("Eligibility cannot be determined because the hire date is unknown")
	}
	return apperrors.Validation("Not eligible for sabbatical: %.2f years of service, %d required", result.YearsOfService, required)
}

func (i impl) requiredYears() int {
	if i.settings.EligibilityYears <= 0 {
		return eligibility.DefaultRequiredYears
	}
	return i.settings.EligibilityYears
}

func (i impl) siteReport(stores unitofwork.Stores, site string, start, end time.Time, excludeID string) (conflicts.Report, error) {
	return SiteReport(stores, i.settings.Conflicts, site, start, end, excludeID)
}

// SiteReport checks a date range against the active applications of a site.
func SiteReport(stores unitofwork.Stores, policy conflicts.Policy, site string, start, end time.Time, excludeID string) (conflicts.Report, error) {
	if strings.TrimSpace(site) == "" {
		return policy.Check(conflicts.Query{}, nil), nil
	}
	list, err := stores.Applications.ListActiveBySite(site)
	if err != nil {
		return conflicts.Report{}, StoreError(err, "list site applications")
	}
	return policy.Check(conflicts.Query{
		Site:      site,
		Start:     start,
		End:       end,
		ExcludeID: excludeID,
	}, conflicts.CandidatesFrom(list)), nil
}

func (i impl) SiteConflicts(site, startDate, endDate, excludeID string) (conflicts.Report, error) {
	if strings.TrimSpace(site) == "" {
		return conflicts.Report{}, apperrors.Validation("site is required")
	}
	start, err := apimodels.ParseDate("start_date", startDate)
	if err != nil {
		return conflicts.Report{}, err
	}
	end, err := apimodels.ParseDate("end_date", endDate)
	if err != nil {
		return conflicts.Report{}, err
	}
	if start == nil || end == nil {
		return conflicts.Report{}, apperrors.Validation("start_date and end_date are required")
	}
	if end.Before(*start) {
		return conflicts.Report{}, apperrors.Validation("end_date must not be before start_date")
	}
	report, err := i.siteReport(i.uow.Stores(), site, *start, *end, excludeID)
	if err != nil {
		logError(log.WithField("site", site), err, "failed to check site conflicts")
		return conflicts.Report{}, err
	}
	return report, nil
}

func (i impl) DuplicateCheck(actor models.Actor, email string) (applicationapimodels.DuplicateCheckView, error) {
	email, err := subjectEmail(actor, email)
	if err != nil {
		return applicationapimodels.DuplicateCheckView{}, err
	}
	active, err := i.uow.Stores().Applications.ListActiveByEmail(email)
	if err != nil {
		err = StoreError(err, "list active applications")
		logError(log.WithField("employee_email", email), err, "failed to check duplicates")
		return applicationapimodels.DuplicateCheckView{}, err
	}
	result := applicationapimodels.DuplicateCheckView{
		HasActive:    len(active) != 0,
		Applications: make([]applicationapimodels.ApplicationView, 0, len(active)),
	}
	for _, rec := range active {
		result.Applications = append(result.Applications, i.view(actor, rec))
	}
	return result, nil
}

func (i impl) EmployeeLookup(actor models.Actor, email string) (*staffdirectory.Employee, error) {
	email, err := subjectEmail(actor, email)
	if err != nil {
		return nil, err
	}
	emp, err := i.directory.Lookup(email)
	if err != nil {
		logError(log.WithField("employee_email", email), err, "failed to look up employee")
		return nil, err
	}
	if emp == nil {
		return nil, apperrors.NotFound("Employee %v was not found in the staff directory", email)
	}
	return emp, nil
}

func (i impl) Eligibility(actor models.Actor, email string) (staffapimodels.EligibilityView, error) {
	emp, err := i.EmployeeLookup(actor, email)
	if err != nil {
		return staffapimodels.EligibilityView{}, err
	}
	result := staffapimodels.EligibilityView{
		Email:         emp.Email,
		EmployeeName:  emp.FullName,
		YearsRequired: i.requiredYears(),
		Result:        eligibility.Check(emp.HireDate, i.now(), i.settings.EligibilityYears),
	}
	if emp.HireDate != nil {
		result.HireDate = emp.HireDate.Format(apimodels.DateLayout)
	}
	return result, nil
}

// subjectEmail defaults to the actor. Only reviewers may ask about someone else.
func subjectEmail(actor models.Actor, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || dbmodels.SameEmail(email, actor.Email) {
		return actor.Email, nil
	}
	if !actor.HasAny(models.TalentRole, models.HRRole, models.AdminRole) {
		return "", apperrors.Forbidden("You can only look up your own record")
	}
	return email, nil
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
