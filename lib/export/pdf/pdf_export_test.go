package pdfexport

import (
	"bytes"
	"testing"
	"time"

	"sabbatical-backend/models"

	"github.com/stretchr/testify/require"
)

func TestGenerateApprovalLetter(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	body, err := GenerateApprovalLetter("FirstLine Schools", models.TemplateData{
		ApplicationID:    "app-1",
		EmployeeName:     "Jane Doe",
		JobTitle:         "Teacher",
		Site:             "North",
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 56),
		Duration:         "8 weeks",
		LeaveOption:      "8 Weeks - 100% Salary",
		SalaryPercentage: 100,
		ApproverName:     "HR Team",
		ProgramName:      "Sabbatical Program",
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
