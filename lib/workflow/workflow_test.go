package workflow

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
)

func actor(roles ...models.UserRole) Caller {
	return Caller{Actor: models.Actor{Email: "someone@firstline.org", Roles: append([]models.UserRole{models.StaffRole}, roles...)}}
}

func TestResolve(t *testing.T) {
	t.Run("talent review of submitted application", func(t *testing.T) {
		step, err := Resolve(models.StatusSubmitted, ActionReview, models.DecisionApproved, actor(models.TalentRole))
		require.NoError(t, err)
		require.Equal(t, models.StatusTentativelyApproved, step.To)
		require.Equal(t, StageTalent, step.Stage)

		step, err = Resolve(models.StatusSubmitted, ActionReview, models.DecisionDenied, actor(models.AdminRole))
		require.NoError(t, err)
		require.Equal(t, models.StatusDenied, step.To)
	})
	t.Run("wrong role is forbidden", func(t *testing.T) {
		_, err := Resolve(models.StatusSubmitted, ActionReview, models.DecisionApproved, actor(models.HRRole))
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
		_, err = Resolve(models.StatusApproved, ActionReview, models.DecisionApproved, actor(models.TalentRole))
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
	t.Run("no rule for stage", func(t *testing.T) {
		_, err := Resolve(models.StatusCompleted, ActionReview, models.DecisionApproved, actor(models.AdminRole))
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
		require.Equal(t, apperrors.StageMessage, apperrors.PublicMessage(err))
	})
	t.Run("invalid decision", func(t *testing.T) {
		_, err := Resolve(models.StatusSubmitted, ActionReview, models.Decision("maybe"), actor(models.TalentRole))
		require.True(t, errors.Is(err, apperrors.ErrValidation))
	})
	t.Run("hr completes approved application", func(t *testing.T) {
		step, err := Resolve(models.StatusApproved, ActionReview, models.DecisionApproved, actor(models.HRRole))
		require.NoError(t, err)
		require.Equal(t, models.StatusCompleted, step.To)
		require.Equal(t, StageHR, step.Stage)
	})
	t.Run("withdraw", func(t *testing.T) {
		owner := actor()
		owner.IsOwner = true
		for _, from := range []models.ApplicationStatus{models.StatusSubmitted, models.StatusTentativelyApproved, models.StatusPlanSubmitted} {
			step, err := Resolve(from, ActionWithdraw, "", owner)
			require.NoError(t, err)
			require.Equal(t, models.StatusWithdrawn, step.To)
		}
		_, err := Resolve(models.StatusApproved, ActionWithdraw, "", owner)
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
		_, err = Resolve(models.StatusSubmitted, ActionWithdraw, "", actor(models.AdminRole))
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
	t.Run("system transitions", func(t *testing.T) {
		_, err := Resolve(models.StatusPlanSubmitted, ActionPlanSignedOff, "", actor(models.AdminRole))
		require.True(t, errors.Is(err, apperrors.ErrForbidden))
		step, err := Resolve(models.StatusPlanSubmitted, ActionPlanSignedOff, "", Caller{System: true})
		require.NoError(t, err)
		require.Equal(t, models.StatusApproved, step.To)
		step, err = Resolve(models.StatusPlanSubmitted, ActionPlanDenied, "", Caller{System: true})
		require.NoError(t, err)
		require.Equal(t, models.StatusDenied, step.To)
		require.Equal(t, models.DecisionDenied, step.Decision)
	})
}

func TestTable(t *testing.T) {
	t.Run("terminal statuses have no exits", func(t *testing.T) {
		for _, status := range models.AllStatuses {
			if status.IsTerminal() {
				require.Empty(t, Targets(status), status)
			} else {
				require.NotEmpty(t, Targets(status), status)
			}
			for _, to := range Targets(status) {
				require.True(t, to.IsValid())
			}
		}
	})
	t.Run("available actions", func(t *testing.T) {
		require.Equal(t, []Action{ActionReview}, Available(models.StatusSubmitted, actor(models.TalentRole)))
		require.Empty(t, Available(models.StatusSubmitted, actor(models.HRRole)))
		owner := actor()
		owner.IsOwner = true
		require.Equal(t, []Action{ActionSubmitPlan, ActionWithdraw}, Available(models.StatusTentativelyApproved, owner))
		require.Equal(t, []models.UserRole{models.HRRole, models.AdminRole}, ReviewerRoles(models.StatusApproved))
	})
}
