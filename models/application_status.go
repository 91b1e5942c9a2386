package models

import "slices"

type ApplicationStatus string

const (
	StatusSubmitted           ApplicationStatus = "submitted"
	StatusTentativelyApproved ApplicationStatus = "tentatively_approved"
	StatusPlanSubmitted       ApplicationStatus = "plan_submitted"
	StatusApproved            ApplicationStatus = "approved"
	StatusCompleted           ApplicationStatus = "completed"
	StatusDenied              ApplicationStatus = "denied"
	StatusWithdrawn           ApplicationStatus = "withdrawn"
)

var AllStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusTentativelyApproved,
	StatusPlanSubmitted,
	StatusApproved,
	StatusCompleted,
	StatusDenied,
	StatusWithdrawn,
}

// ActiveStatuses count toward duplicate and site conflict checks.
var ActiveStatuses = []ApplicationStatus{
	StatusSubmitted,
	StatusTentativelyApproved,
	StatusPlanSubmitted,
	StatusApproved,
}

var statusHumanName = map[ApplicationStatus]string{
	StatusSubmitted:           "Submitted",
	StatusTentativelyApproved: "Tentatively approved",
	StatusPlanSubmitted:       "Plan submitted",
	StatusApproved:            "Approved",
	StatusCompleted:           "Completed",
	StatusDenied:              "Denied",
	StatusWithdrawn:           "Withdrawn",
}

func (s ApplicationStatus) ToHuman() string {
	if human, exist := statusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApplicationStatus) IsValid() bool {
	return slices.Contains(AllStatuses, s)
}

func (s ApplicationStatus) IsActive() bool {
	return slices.Contains(ActiveStatuses, s)
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDenied || s == StatusWithdrawn
}

// AllowWithdraw lists states the owner may still back out of.
func (s ApplicationStatus) AllowWithdraw() bool {
	return s == StatusSubmitted || s == StatusTentativelyApproved || s == StatusPlanSubmitted
}

func (s ApplicationStatus) AllowDateChange() bool {
	return s.IsActive()
}

// AllowLetter is true once the plan is signed off.
func (s ApplicationStatus) AllowLetter() bool {
	return s == StatusApproved || s == StatusCompleted
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDenied   Decision = "denied"
)

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionDenied
}

type ApprovalState string

const (
	AStatePending          ApprovalState = "pending"
	AStateApproved         ApprovalState = "approved"
	AStateChangesRequested ApprovalState = "changes_requested"
	AStateDenied           ApprovalState = "denied"
)

var approvalStateHumanName = map[ApprovalState]string{
	AStatePending:          "Pending",
	AStateApproved:         "Approved",
	AStateChangesRequested: "Changes requested",
	AStateDenied:           "Denied",
}

func (s ApprovalState) ToHuman() string {
	if human, exist := approvalStateHumanName[s]; exist {
		return human
	}
	return string(s)
}

type ApproverRole string

const (
	ApproverManager ApproverRole = "manager"
	ApproverTalent  ApproverRole = "talent"
	ApproverHR      ApproverRole = "hr"
)

type DateChangeState string

const (
	DCStatePending  DateChangeState = "pending"
	DCStateApproved DateChangeState = "approved"
	DCStateDenied   DateChangeState = "denied"
)
