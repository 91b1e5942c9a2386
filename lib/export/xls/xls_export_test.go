package xlsexport

import (
	"testing"
	"time"

	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"

	"github.com/stretchr/testify/require"
)

func TestExportApplicationList(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	list := []dbmodels.Application{
		{
			EmployeeName:       "Jane Doe",
			EmployeeEmail:      "jane@example.org",
			Site:               "North",
			RequestedStartDate: dbmodels.NewDate(start),
			RequestedEndDate:   dbmodels.NewDate(start.AddDate(0, 0, 56)),
			DurationWeeks:      8,
			LeaveOption:        models.LeaveEightWeeksFullPay,
			Status:             models.StatusSubmitted,
			SubmittedAt:        start.AddDate(0, -2, 0),
		},
	}
	buf, err := impl{}.ExportApplicationList(list)
	require.NoError(t, err)

	records, err := ReadRecords(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Jane Doe", records[0]["Employee"])
	require.Equal(t, "06/01/2026", records[0]["Start date"])
	require.Equal(t, "8 Weeks - 100% Salary", records[0]["Leave option"])
	require.Equal(t, "Submitted", records[0]["Status"])
}
