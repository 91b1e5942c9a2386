package application

import (
	"context"
	"sabbatical-backend/config"
	"sabbatical-backend/db"
	"sabbatical-backend/lib/conflicts"
	xlsexport "sabbatical-backend/lib/export/xls"
	filestorage "sabbatical-backend/lib/file-storage"
	"sabbatical-backend/lib/notification"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	unitofwork "sabbatical-backend/lib/unit-of-work"
	initchecker "sabbatical-backend/lib/utils/init-checker"
	"sabbatical-backend/lib/workflow"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	staffapimodels "sabbatical-backend/models/api/staff"
	dbmodels "sabbatical-backend/models/db"
	"time"
)

type Provider interface {
	Submit(actor models.Actor, request applicationapimodels.SubmitRequest) (applicationapimodels.SubmitResponse, error)
	Get(actor models.Actor, id string) (applicationapimodels.ApplicationView, error)
	List(actor models.Actor, request applicationapimodels.ListRequest) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	Review(actor models.Actor, id string, request applicationapimodels.ReviewRequest) (applicationapimodels.ApplicationView, error)
	Withdraw(actor models.Actor, id string, request applicationapimodels.WithdrawRequest) (applicationapimodels.ApplicationView, error)
	SubmitPlan(actor models.Actor, id string, request applicationapimodels.PlanRequest) (applicationapimodels.ApplicationView, error)
	ResubmitPlan(actor models.Actor, id string, request applicationapimodels.ResubmitPlanRequest) (applicationapimodels.ApplicationView, error)
	DecideTask(actor models.Actor, id, taskID string, action applicationapimodels.TaskAction, request applicationapimodels.TaskActionRequest) (applicationapimodels.ApplicationView, error)
	Delete(actor models.Actor, id string) error
	Export(actor models.Actor, request applicationapimodels.ExportRequest) ([]byte, error)
	Letter(ctx context.Context, actor models.Actor, id string) ([]byte, error)
	DuplicateCheck(actor models.Actor, email string) (applicationapimodels.DuplicateCheckView, error)
	SiteConflicts(site, startDate, endDate, excludeID string) (conflicts.Report, error)
	EmployeeLookup(actor models.Actor, email string) (*staffdirectory.Employee, error)
	Eligibility(actor models.Actor, email string) (staffapimodels.EligibilityView, error)
}

var Instance Provider

type Approver struct {
	Email string
	Name  string
}

type Settings struct {
	EligibilityYears  int
	Conflicts         conflicts.Policy
	ManagerChainDepth int
	TalentApprover    Approver
	HRApprover        Approver
	Organization      string
	ProgramName       string
}

// Deps are the collaborators of the workflow. Letters may be nil.
type Deps struct {
	UnitOfWork unitofwork.Provider
	Directory  staffdirectory.Provider
	Notifier   notification.Provider
	Exporter   xlsexport.Provider
	Letters    filestorage.Provider
}

func NewHandler() {
	initchecker.CheckInit(
		"staff directory", staffdirectory.Instance,
		"notifier", notification.Instance,
		"exporter", xlsexport.Instance,
	)
	Instance = NewInstance(Deps{
		UnitOfWork: unitofwork.NewInstance(db.DB),
		Directory:  staffdirectory.Instance,
		Notifier:   notification.Instance,
		Exporter:   xlsexport.Instance,
		Letters:    filestorage.Instance,
	}, SettingsFromConfig(config.Conf))
}

func SettingsFromConfig(conf *config.Configuration) Settings {
	return Settings{
		EligibilityYears:  conf.Policy.EligibilityYears,
		Conflicts:         conflicts.Policy{BlockThreshold: conf.Policy.ConflictBlockThreshold},
		ManagerChainDepth: conf.Workflow.ManagerChainDepth,
		TalentApprover:    Approver{Email: conf.Approvers.TalentEmail, Name: conf.Approvers.TalentName},
		HRApprover:        Approver{Email: conf.Approvers.HREmail, Name: conf.Approvers.HRName},
		Organization:      conf.App.Organization,
		ProgramName:       conf.App.ProgramName,
	}
}

func NewInstance(deps Deps, settings Settings) Provider {
	return &impl{
		uow:       deps.UnitOfWork,
		directory: deps.Directory,
		notifier:  deps.Notifier,
		exporter:  deps.Exporter,
		letters:   deps.Letters,
		settings:  settings,
		access:    NewAccess(deps.Directory),
		now:       time.Now,
	}
}

type impl struct {
	uow       unitofwork.Provider
	directory staffdirectory.Provider
	notifier  notification.Provider
	exporter  xlsexport.Provider
	letters   filestorage.Provider
	settings  Settings
	access    Access
	now       func() time.Time
}

func (i impl) caller(actor models.Actor, rec dbmodels.Application) workflow.Caller {
	return workflow.Caller{
		Actor:   actor,
		IsOwner: rec.IsOwner(actor.Email),
	}
}

func (i impl) view(actor models.Actor, rec dbmodels.Application) applicationapimodels.ApplicationView {
	return View(actor, rec)
}

// View converts an application and lists the workflow actions open to the actor.
func View(actor models.Actor, rec dbmodels.Application) applicationapimodels.ApplicationView {
	caller := workflow.Caller{Actor: actor, IsOwner: rec.IsOwner(actor.Email)}
	actions := []string{}
	for _, action := range workflow.Available(rec.Status, caller) {
		if action == workflow.ActionReview && caller.IsOwner {
			continue
		}
		actions = append(actions, string(action))
	}
	return applicationapimodels.ApplicationConvert(rec, actions)
}

func (i impl) templateData(rec dbmodels.Application) models.TemplateData {
	data := models.TemplateData{
		ApplicationID:    rec.ID,
		EmployeeName:     rec.EmployeeName,
		EmployeeEmail:    rec.EmployeeEmail,
		Site:             rec.Site,
		JobTitle:         rec.JobTitle,
		DurationWeeks:    rec.DurationWeeks,
		SalaryPercentage: rec.SalaryPercentage,
		Status:           rec.Status.ToHuman(),
		LeaveOption:      string(rec.LeaveOption),
		ProgramName:      i.settings.ProgramName,
	}
	if info, ok := rec.LeaveOption.Info(); ok {
		data.LeaveOption = info.Label
	}
	data.StartDate, _ = rec.StartDate()
	data.EndDate, _ = rec.EndDate()
	if rec.DurationWeeks > 0 {
		data.Duration = notification.FormatWeeks(rec.DurationWeeks)
	}
	return data
}

func (i impl) notify(tag notification.Tag, rec dbmodels.Application, data models.TemplateData, to []string, teams ...notification.Team) {
	if i.notifier == nil {
		return
	}
	i.notifier.Send(notification.Message{
		Template:      tag,
		ApplicationID: rec.ID,
		To:            to,
		Teams:         teams,
		Data:          data,
	})
}
