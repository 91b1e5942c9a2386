package approvaltask

import (
	"testing"
	"time"

	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/lib/unit-of-work/memory"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"

	"github.com/stretchr/testify/require"
)

type staffRows []canonical.Record

func (s staffRows) LoadAll() ([]canonical.Record, error) {
	return s, nil
}

func (s staffRows) Upsert(dbmodels.StaffMember) error {
	return nil
}

func TestApprovals(t *testing.T) {
	db := memory.New()
	stores := db.Stores()
	appID, err := stores.Applications.Create(dbmodels.Application{
		EmployeeEmail: "jane@example.org",
		Status:        models.StatusPlanSubmitted,
		SubmittedAt:   time.Now(),
	})
	require.NoError(t, err)
	closedID, err := stores.Applications.Create(dbmodels.Application{
		EmployeeEmail: "bob@example.org",
		Status:        models.StatusDenied,
		SubmittedAt:   time.Now(),
	})
	require.NoError(t, err)
	for idx, email := range []string{"sam@example.org", "talent@example.org"} {
		_, err = stores.Approvals.Create(dbmodels.ApprovalTask{
			ApplicationID: appID,
			ApproverEmail: email,
			Position:      idx + 1,
			State:         models.AStatePending,
		})
		require.NoError(t, err)
	}
	_, err = stores.Approvals.Create(dbmodels.ApprovalTask{
		ApplicationID: closedID,
		ApproverEmail: "sam@example.org",
		Position:      1,
		State:         models.AStatePending,
	})
	require.NoError(t, err)

	h := NewInstance(db, staffdirectory.NewInstance(staffRows{}, time.Minute))
	sam := models.Actor{Email: "Sam@Example.org", Roles: []models.UserRole{models.StaffRole}}
	outsider := models.Actor{Email: "eve@example.org", Roles: []models.UserRole{models.StaffRole}}

	t.Run("approvers see the application approvals", func(t *testing.T) {
		list, err := h.List(sam, appID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, 1, list[0].Position)
		require.Equal(t, "Pending", list[0].StateName)

		_, err = h.List(outsider, appID)
		got, _ := apperrors.KindOf(err)
		require.Equal(t, apperrors.KindForbidden, got)
	})

	t.Run("inbox skips closed applications", func(t *testing.T) {
		inbox, err := h.Inbox(sam)
		require.NoError(t, err)
		require.Len(t, inbox, 1)
		require.Equal(t, appID, inbox[0].Application.ID)

		inbox, err = h.Inbox(outsider)
		require.NoError(t, err)
		require.Empty(t, inbox)
	})
}
