package workflow

import (
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	"slices"
)

type Action string

const (
	ActionReview        Action = "review"
	ActionSubmitPlan    Action = "submit_plan"
	ActionResubmitPlan  Action = "resubmit_plan"
	ActionPlanSignedOff Action = "plan_signed_off"
	ActionPlanDenied    Action = "plan_denied"
	ActionWithdraw      Action = "withdraw"
)

// Stage names the review fields a transition writes.
type Stage string

const (
	StageNone   Stage = ""
	StageTalent Stage = "talent"
	StageHR     Stage = "hr"
)

type Rule struct {
	Roles      []models.UserRole
	OwnerOnly  bool
	System     bool
	OnApproved models.ApplicationStatus
	OnDenied   models.ApplicationStatus
	Stage      Stage
}

type key struct {
	from   models.ApplicationStatus
	action Action
}

var table = map[key]Rule{
	{models.StatusSubmitted, ActionReview}: {
		Roles:      []models.UserRole{models.TalentRole, models.AdminRole},
		OnApproved: models.StatusTentativelyApproved,
		OnDenied:   models.StatusDenied,
		Stage:      StageTalent,
	},
	{models.StatusTentativelyApproved, ActionSubmitPlan}: {
		OwnerOnly:  true,
		OnApproved: models.StatusPlanSubmitted,
	},
	{models.StatusPlanSubmitted, ActionResubmitPlan}: {
		OwnerOnly:  true,
		OnApproved: models.StatusPlanSubmitted,
	},
	{models.StatusPlanSubmitted, ActionPlanSignedOff}: {
		System:     true,
		OnApproved: models.StatusApproved,
	},
	{models.StatusPlanSubmitted, ActionPlanDenied}: {
		System:   true,
		OnDenied: models.StatusDenied,
	},
	{models.StatusApproved, ActionReview}: {
		Roles:      []models.UserRole{models.HRRole, models.AdminRole},
		OnApproved: models.StatusCompleted,
		OnDenied:   models.StatusDenied,
		Stage:      StageHR,
	},
	{models.StatusSubmitted, ActionWithdraw}: {
		OwnerOnly:  true,
		OnApproved: models.StatusWithdrawn,
	},
	{models.StatusTentativelyApproved, ActionWithdraw}: {
		OwnerOnly:  true,
		OnApproved: models.StatusWithdrawn,
	},
	{models.StatusPlanSubmitted, ActionWithdraw}: {
		OwnerOnly:  true,
		OnApproved: models.StatusWithdrawn,
	},
}

// Caller describes who is asking for a transition.
type Caller struct {
	Actor   models.Actor
	IsOwner bool
	System  bool
}

type Step struct {
	From     models.ApplicationStatus
	To       models.ApplicationStatus
	Action   Action
	Stage    Stage
	Decision models.Decision
}

// Resolve checks the transition table and returns the step to apply.
// Actions without a decision (plan, withdraw) pass an empty decision.
func Resolve(from models.ApplicationStatus, action Action, decision models.Decision, caller Caller) (Step, error) {
	rule, ok := table[key{from, action}]
	if !ok {
		return Step{}, apperrors.Forbidden(apperrors.StageMessage)
	}
	if err := authorize(rule, caller); err != nil {
		return Step{}, err
	}
	step := Step{
		From:   from,
		Action: action,
		Stage:  rule.Stage,
	}
	switch {
	case rule.OnApproved != "" && rule.OnDenied != "":
		if !decision.IsValid() {
			return Step{}, apperrors.Validation("decision must be %q or %q", models.DecisionApproved, models.DecisionDenied)
		}
		step.Decision = decision
		if decision == models.DecisionApproved {
			step.To = rule.OnApproved
		} else {
			step.To = rule.OnDenied
		}
	case rule.OnApproved != "":
		step.To = rule.OnApproved
		step.Decision = models.DecisionApproved
	default:
		step.To = rule.OnDenied
		step.Decision = models.DecisionDenied
	}
	return step, nil
}

func authorize(rule Rule, caller Caller) error {
	if rule.System {
		if !caller.System {
			return apperrors.Forbidden(apperrors.StageMessage)
		}
		return nil
	}
	if rule.OwnerOnly {
		if !caller.IsOwner {
			return apperrors.Forbidden("Only the applicant can perform this action")
		}
		return nil
	}
	if !caller.Actor.HasAny(rule.Roles...) {
		return apperrors.Forbidden("Your role cannot review this application at this stage")
	}
	return nil
}

// Available lists the actions a caller may take on an application in the given status.
func Available(from models.ApplicationStatus, caller Caller) []Action {
	result := []Action{}
	for k, rule := range table {
		if k.from != from || rule.System {
			continue
		}
		if authorize(rule, caller) != nil {
			continue
		}
		if !slices.Contains(result, k.action) {
			result = append(result, k.action)
		}
	}
	slices.Sort(result)
	return result
}

// ReviewerRoles returns the roles allowed to review in the given status.
func ReviewerRoles(from models.ApplicationStatus) []models.UserRole {
	rule, ok := table[key{from, ActionReview}]
	if !ok {
		return nil
	}
	return rule.Roles
}

// Targets lists every status reachable from the given one.
func Targets(from models.ApplicationStatus) []models.ApplicationStatus {
	result := []models.ApplicationStatus{}
	for k, rule := range table {
		if k.from != from {
			continue
		}
		for _, to := range []models.ApplicationStatus{rule.OnApproved, rule.OnDenied} {
			if to != "" && !slices.Contains(result, to) {
				result = append(result, to)
			}
		}
	}
	return result
}
