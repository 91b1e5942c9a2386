package applicationhistory

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

func TestHistory(t *testing.T) {
	db := memory.New()
	stores := db.Stores()
	appID, err := stores.Applications.Create(dbmodels.Application{
		EmployeeEmail: "jane@example.org",
		Status:        models.StatusSubmitted,
		SubmittedAt:   time.Now(),
	})
	require.NoError(t, err)
	for _, action := range []dbmodels.HistoryAction{dbmodels.HistorySubmitted, dbmodels.HistoryTalentReview} {
		_, err = stores.History.Create(dbmodels.ApprovalHistory{ApplicationID: appID, Action: action})
		require.NoError(t, err)
	}
	directory := staffdirectory.NewInstance(staffRows{
		{canonical.FieldEmail: "jane@example.org", canonical.FieldSupervisorEmail: "sam@example.org"},
		{canonical.FieldEmail: "sam@example.org"},
	}, time.Minute)
	h := NewInstance(db, directory)

	jane := models.Actor{Email: "jane@example.org", Roles: []models.UserRole{models.StaffRole}}
	sam := models.Actor{Email: "sam@example.org", Roles: []models.UserRole{models.StaffRole, models.DirectorRole}}
	bob := models.Actor{Email: "bob@example.org", Roles: []models.UserRole{models.StaffRole}}
	admin := models.Actor{Email: "admin@example.org", Roles: []models.UserRole{models.AdminRole}}

	for _, actor := range []models.Actor{jane, sam, admin} {
		list, err := h.List(actor, appID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, dbmodels.HistorySubmitted, list[0].Action)
	}

	_, err = h.List(bob, appID)
	kind, _ := apperrors.KindOf(err)
	require.Equal(t, apperrors.KindForbidden, kind)

	require.NoError(t, stores.Applications.Delete(appID))
	_, err = h.List(jane, appID)
	kind, _ = apperrors.KindOf(err)
	require.Equal(t, apperrors.KindNotFound, kind)
	list, err := h.List(admin, appID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
