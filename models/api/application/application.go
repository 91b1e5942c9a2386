package applicationapimodels

import (
	"sabbatical-backend/lib/conflicts"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	apimodels "sabbatical-backend/models/api"
	dbmodels "sabbatical-backend/models/db"
	"strings"
	"time"
)

type SubmitRequest struct {
	StartDate          string             `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string             `json:"end_date" validate:"omitempty,datetime=2006-01-02"` // derived from the leave option when empty
	LeaveOption        models.LeaveOption `json:"leave_option" validate:"required"`
	SabbaticalPurpose  string             `json:"sabbatical_purpose" validate:"required,max=5000"`
	WhyNow             string             `json:"why_now" validate:"max=5000"`
	CoveragePlan       string             `json:"coverage_plan" validate:"max=5000"`
	Flexible           bool               `json:"flexible"`
	FlexibilityDetails string             `json:"flexibility_details" validate:"max=2000"`
	ManagerDiscussed   bool               `json:"manager_discussed"`
	AdditionalComments string             `json:"additional_comments" validate:"max=5000"`
}

func (r SubmitRequest) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return err
	}
	if !r.LeaveOption.IsValid() {
		return apperrors.Validation("leave_option must be %q or %q", models.LeaveEightWeeksFullPay, models.LeaveTwelveWeeksPartialPay)
	}
	start, end, err := r.Dates()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return apperrors.Validation("end_date must not be before start_date")
	}
	return nil
}

// Dates returns the requested range, deriving the end from the leave option when omitted.
func (r SubmitRequest) Dates() (start, end time.Time, err error) {
	s, err := apimodels.ParseDate("start_date", r.StartDate)
	if err != nil {
		return start, end, err
	}
	if s == nil {
		return start, end, apperrors.Validation("start_date is required")
	}
	e, err := apimodels.ParseDate("end_date", r.EndDate)
	if err != nil {
		return start, end, err
	}
	if e == nil {
		return *s, r.LeaveOption.EndDate(*s), nil
	}
	return *s, *e, nil
}

type ListRequest struct {
	apimodels.Pagination
	Status *models.ApplicationStatus `json:"status"`
}

func (r ListRequest) Validate() error {
	if r.Status != nil && !r.Status.IsValid() {
		return apperrors.Validation("unknown status %q", *r.Status)
	}
	return nil
}

type ExportRequest struct {
	Status *models.ApplicationStatus `json:"status"`
}

func (r ExportRequest) Validate() error {
	if r.Status != nil && !r.Status.IsValid() {
		return apperrors.Validation("unknown status %q", *r.Status)
	}
	return nil
}

type ReviewRequest struct {
	Decision models.Decision `json:"decision"`
	Notes    string          `json:"notes" validate:"max=5000"`
}

func (r ReviewRequest) Validate() error {
	if !r.Decision.IsValid() {
		return apperrors.Validation("decision must be %q or %q", models.DecisionApproved, models.DecisionDenied)
	}
	return apimodels.ValidateStruct(r)
}

type PlanRequest struct {
	PlanDetails string `json:"plan_details" validate:"required,max=10000"`
}

func (r PlanRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type ApplicationView struct {
	ID                 string                   `json:"id"`
	EmployeeEmail      string                   `json:"employee_email"`
	EmployeeName       string                   `json:"employee_name"`
	EmployeeNameKey    string                   `json:"employee_name_key"`
	HireDate           string                   `json:"hire_date,omitempty"`
	YearsOfService     float64                  `json:"years_of_service"`
	JobTitle           string                   `json:"job_title"`
	Department         string                   `json:"department"`
	Site               string                   `json:"site"`
	SupervisorName     string                   `json:"supervisor_name"`
	SupervisorEmail    string                   `json:"supervisor_email"`
	StartDate          string                   `json:"requested_start_date,omitempty"`
	EndDate            string                   `json:"requested_end_date,omitempty"`
	DurationWeeks      int                      `json:"duration_weeks"`
	LeaveOption        models.LeaveOption       `json:"leave_option"`
	LeaveWeeks         int                      `json:"leave_weeks"`
	SalaryPercentage   int                      `json:"salary_percentage"`
	SabbaticalPurpose  string                   `json:"sabbatical_purpose"`
	WhyNow             string                   `json:"why_now"`
	CoveragePlan       string                   `json:"coverage_plan"`
	Flexible           string                   `json:"flexible"`
	FlexibilityDetails string                   `json:"flexibility_details"`
	ManagerDiscussed   string                   `json:"manager_discussed"`
	AdditionalComments string                   `json:"additional_comments"`
	PlanDetails        string                   `json:"plan_details"`
	Status             models.ApplicationStatus `json:"status"`
	StatusName         string                   `json:"status_name"`
	TalentReview       *StageReviewView         `json:"talent_review,omitempty"`
	HRReview           *StageReviewView         `json:"hr_review,omitempty"`
	SubmittedAt        time.Time                `json:"submitted_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
	Actions            []string                 `json:"actions"`
}

type StageReviewView struct {
	Reviewer     string           `json:"reviewer"`
	ReviewerName string           `json:"reviewer_name"`
	Decision     *models.Decision `json:"decision"`
	Notes        string           `json:"notes"`
	ReviewedAt   *time.Time       `json:"reviewed_at"`
}

func ApplicationConvert(rec dbmodels.Application, actions []string) ApplicationView {
	if actions == nil {
		actions = []string{}
	}
	return ApplicationView{
		ID:                 rec.ID,
		EmployeeEmail:      rec.EmployeeEmail,
		EmployeeName:       rec.EmployeeName,
		EmployeeNameKey:    rec.EmployeeNumber,
		HireDate:           apimodels.FormatDate(rec.HireDateValue()),
		YearsOfService:     rec.YearsOfService,
		JobTitle:           rec.JobTitle,
		Department:         rec.Department,
		Site:               rec.Site,
		SupervisorName:     rec.SupervisorName,
		SupervisorEmail:    rec.SupervisorEmail,
		StartDate:          apimodels.FormatDate(rec.StartDate()),
		EndDate:            apimodels.FormatDate(rec.EndDate()),
		DurationWeeks:      rec.DurationWeeks,
		LeaveOption:        rec.LeaveOption,
		LeaveWeeks:         rec.LeaveWeeks,
		SalaryPercentage:   rec.SalaryPercentage,
		SabbaticalPurpose:  rec.SabbaticalPurpose,
		WhyNow:             rec.WhyNow,
		CoveragePlan:       rec.CoveragePlan,
		Flexible:           rec.Flexible,
		FlexibilityDetails: rec.FlexibilityDetails,
		ManagerDiscussed:   rec.ManagerDiscussed,
		AdditionalComments: rec.AdditionalComments,
		PlanDetails:        rec.PlanDetails,
		Status:             rec.Status,
		StatusName:         rec.Status.ToHuman(),
		TalentReview:       stageReviewConvert(rec.TalentReview),
		HRReview:           stageReviewConvert(rec.HRReview),
		SubmittedAt:        rec.SubmittedAt,
		UpdatedAt:          rec.UpdatedAt,
		Actions:            actions,
	}
}

func stageReviewConvert(rec dbmodels.StageReview) *StageReviewView {
	if rec.IsEmpty() {
		return nil
	}
	view := StageReviewView{
		Decision:   rec.Decision,
		ReviewedAt: rec.ReviewedAt,
	}
	if rec.Reviewer != nil {
		view.Reviewer = *rec.Reviewer
	}
	if rec.ReviewerName != nil {
		view.ReviewerName = *rec.ReviewerName
	}
	if rec.Notes != nil {
		view.Notes = *rec.Notes
	}
	return &view
}

type SubmitResponse struct {
	Application ApplicationView  `json:"application"`
	Conflicts   conflicts.Report `json:"conflicts"`
}

type DuplicateCheckView struct {
	HasActive    bool              `json:"has_active"`
	Applications []ApplicationView `json:"applications"`
}

type ApprovalTaskView struct {
	ID            string               `json:"id"`
	ApproverEmail string               `json:"approver_email"`
	ApproverName  string               `json:"approver_name"`
	ApproverRole  models.ApproverRole  `json:"approver_role"`
	Position      int                  `json:"position"`
	State         models.ApprovalState `json:"state"`
	StateName     string               `json:"state_name"`
	Comment       string               `json:"comment"`
	DecidedAt     *time.Time           `json:"decided_at"`
}

func ApprovalTaskConvert(rec dbmodels.ApprovalTask) ApprovalTaskView {
	return ApprovalTaskView{
		ID:            rec.ID,
		ApproverEmail: rec.ApproverEmail,
		ApproverName:  rec.ApproverName,
		ApproverRole:  rec.ApproverRole,
		Position:      rec.Position,
		State:         rec.State,
		StateName:     rec.State.ToHuman(),
		Comment:       rec.Comment,
		DecidedAt:     rec.DecidedAt,
	}
}

type HistoryView struct {
	ID         string                 `json:"id"`
	TaskID     *string                `json:"task_id,omitempty"`
	Action     dbmodels.HistoryAction `json:"action"`
	ActorEmail string                 `json:"actor_email"`
	ActorName  string                 `json:"actor_name"`
	Notes      string                 `json:"notes"`
	Changes    dbmodels.EntityChanges `json:"changes"`
	CreatedAt  time.Time              `json:"created_at"`
}

func HistoryConvert(rec dbmodels.ApprovalHistory) HistoryView {
	return HistoryView{
		ID:         rec.ID,
		TaskID:     rec.TaskID,
		Action:     rec.Action,
		ActorEmail: rec.ActorEmail,
		ActorName:  rec.ActorName,
		Notes:      rec.Notes,
		Changes:    rec.Changes,
		CreatedAt:  rec.CreatedAt,
	}
}

type WithdrawRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

func (r WithdrawRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type ResubmitPlanRequest struct {
	PlanDetails string `json:"plan_details" validate:"max=10000"` // keeps the previous plan when empty
}

func (r ResubmitPlanRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

type TaskAction string

const (
	TaskApprove        TaskAction = "approve"
	TaskRequestChanges TaskAction = "request_changes"
	TaskDeny           TaskAction = "deny"
)

func (a TaskAction) State() (models.ApprovalState, bool) {
	switch a {
	case TaskApprove:
		return models.AStateApproved, true
	case TaskRequestChanges:
		return models.AStateChangesRequested, true
	case TaskDeny:
		return models.AStateDenied, true
	}
	return "", false
}

type TaskActionRequest struct {
	Comment string `json:"comment" validate:"max=5000"`
}

// Validate needs the action because asking for changes requires a comment.
func (r TaskActionRequest) Validate(action TaskAction) error {
	if _, ok := action.State(); !ok {
		return apperrors.Validation("unknown approval action %q", action)
	}
	if action == TaskRequestChanges && strings.TrimSpace(r.Comment) == "" {
		return apperrors.Validation("comment is required when requesting changes")
	}
	return apimodels.ValidateStruct(r)
}

type ApprovalInboxItem struct {
	Approval    ApprovalTaskView `json:"approval"`
	Application ApplicationView  `json:"application"`
}
