package legacyimport

import (
	"bytes"
	"testing"
	"time"

	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/lib/unit-of-work/memory"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staffRows []canonical.Record

func (s staffRows) LoadAll() ([]canonical.Record, error) {
	return s, nil
}

func (s staffRows) Upsert(dbmodels.StaffMember) error {
	return nil
}

func formFile(t *testing.T, rows [][]any) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImport(t *testing.T) {
	db := memory.New()
	directory := staffdirectory.NewInstance(staffRows{
		{
			canonical.FieldEmail:    "jane@example.org",
			canonical.FieldFullName: "Jane Doe",
			canonical.FieldSite:     "North",
			canonical.FieldHireDate: "2010-08-01",
			canonical.FieldJobTitle: "Teacher",
		},
	}, time.Minute)
	h := NewInstance(db, directory)
	admin := models.Actor{Email: "admin@example.org", Roles: []models.UserRole{models.AdminRole}}

	file := formFile(t, [][]any{
		{"Timestamp", "Email Address", "Sabbatical Option", "Start Date", "Date Flexibility", "Purpose", "Manager Discussion"},
		{"2025-04-14T16:40:38", "Jane@Example.org", "12 Weeks - 67% Salary", "2026-01-05", "Yes", "Rest", "No"},
		{"2025-04-15T10:00:00", "jane@example.org", "8 Weeks - 100% Salary", "2026-03-02", "No", "Again", "Yes"},
		{"2025-04-16T10:00:00", "ghost@example.org", "6 months", "2026-03-02", "No", "", ""},
		{"2025-04-17T10:00:00", "walt@example.org", "8 Weeks - 100% Salary", "1/4/2027", "Yes", "Travel", "Yes"},
	})

	t.Run("admin only", func(t *testing.T) {
		staff := models.Actor{Email: "jane@example.org", Roles: []models.UserRole{models.StaffRole}}
		_, err := h.Import(staff, bytes.NewReader(file.Bytes()))
		kind, _ := apperrors.KindOf(err)
		require.Equal(t, apperrors.KindForbidden, kind)
	})

	t.Run("imports rows and skips the rest", func(t *testing.T) {
		result, err := h.Import(admin, bytes.NewReader(file.Bytes()))
		require.NoError(t, err)
		require.Len(t, result.Imported, 2)
		require.Len(t, result.Skipped, 2)
		require.Equal(t, 3, result.Skipped[0].Row)
		require.Equal(t, "Employee already has an active application", result.Skipped[0].Reason)
		require.Equal(t, 4, result.Skipped[1].Row)

		apps := db.Applications()
		require.Len(t, apps, 2)
		var jane dbmodels.Application
		for _, app := range apps {
			if app.EmployeeEmail == "jane@example.org" {
				jane = app
			}
		}
		require.Equal(t, "Jane Doe", jane.EmployeeName)
		require.Equal(t, "North", jane.Site)
		require.Equal(t, models.StatusSubmitted, jane.Status)
		require.Equal(t, models.LeaveTwelveWeeksPartialPay, jane.LeaveOption)
		require.Equal(t, 67, jane.SalaryPercentage)
		end, ok := jane.EndDate()
		require.True(t, ok)
		require.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), end)
		require.Equal(t, 12, jane.DurationWeeks)
		require.Equal(t, "Yes", jane.Flexible)
		require.Equal(t, "No", jane.ManagerDiscussed)
		require.Equal(t, time.Date(2025, 4, 14, 16, 40, 38, 0, time.UTC), jane.SubmittedAt)

		history, err := db.Stores().History.List(result.Imported[0].ApplicationID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, dbmodels.HistoryImported, history[0].Action)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := h.Import(admin, bytes.NewReader([]byte("not a spreadsheet")))
		kind, _ := apperrors.KindOf(err)
		require.Equal(t, apperrors.KindValidation, kind)
	})
}
