package dbmodels

import (
	"sabbatical-backend/models"
	"strings"
	"time"
)

type ApprovalTask struct {
	BaseModel
	ApplicationID string `gorm:"type:varchar(36);index"`
	ApproverEmail string `gorm:"type:varchar(255)"`
	ApproverName  string
	ApproverRole  models.ApproverRole `gorm:"type:varchar(20)"`
	Position      int
	State         models.ApprovalState `gorm:"type:varchar(30)"`
	Comment       string
	DecidedAt     *time.Time
}

func (t ApprovalTask) IsApprover(email string) bool {
	return SameEmail(t.ApproverEmail, email)
}

type ApprovalHistory struct {
	BaseModel
	ApplicationID string        `gorm:"type:varchar(36);index"`
	TaskID        *string       `gorm:"type:varchar(36)"`
	Action        HistoryAction `gorm:"type:varchar(50)"`
	ActorEmail    string
	ActorName     string
	Notes         string
	Changes       EntityChanges `gorm:"type:jsonb"`
}

type HistoryAction string

const (
	HistorySubmitted          HistoryAction = "submitted"
	HistoryTalentReview       HistoryAction = "talent_review"
	HistoryHRReview           HistoryAction = "hr_review"
	HistoryWithdrawn          HistoryAction = "withdrawn"
	HistoryPlanSubmitted      HistoryAction = "plan_submitted"
	HistoryPlanResubmitted    HistoryAction = "plan_resubmitted"
	HistoryTaskApproved       HistoryAction = "task_approved"
	HistoryTaskChanges        HistoryAction = "task_changes_requested"
	HistoryTaskDenied         HistoryAction = "task_denied"
	HistoryPlanSignedOff      HistoryAction = "plan_signed_off"
	HistoryPlanDenied         HistoryAction = "plan_denied"
	HistoryDateChangeRequest  HistoryAction = "date_change_requested"
	HistoryDateChangeApproved HistoryAction = "date_change_approved"
	HistoryDateChangeDenied   HistoryAction = "date_change_denied"
	HistoryDeleted            HistoryAction = "deleted"
	HistoryImported           HistoryAction = "imported"
)

func SameEmail(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(b))
}
