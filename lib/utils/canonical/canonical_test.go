package canonical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	require.Equal(t, "email_address", NormalizeKey("Email Address"))
	require.Equal(t, "supervisor_name__unsecured_", NormalizeKey("Supervisor_Name__Unsecured_"))
	require.Equal(t, "last_hire_date", NormalizeKey(" Last_Hire_Date "))
	require.Equal(t, "sabbatical_option", NormalizeKey("Sabbatical Option?"))
}

func TestStaffMapping(t *testing.T) {
	hire := time.Date(2012, time.August, 1, 0, 0, 0, 0, time.UTC)
	t.Run("legacy warehouse columns", func(t *testing.T) {
		rec := StaffMapping.Apply(map[string]any{
			"Email_Address":               "JDoe@FirstlineSchools.org",
			"First_Name":                  "Jane",
			"Last_Name":                   "Doe",
			"Last_Hire_Date":              hire,
			"Function":                    "Academics",
			"Location_Name":               "Arthur Ashe",
			"Supervisor_Name__Unsecured_": "Sam Smith",
			"Employee_Number":             int64(1042),
		})
		require.Equal(t, "JDoe@FirstlineSchools.org", rec.String(FieldEmail))
		require.Equal(t, "Jane Doe", rec.String(FieldFullName))
		require.Equal(t, "Academics", rec.String(FieldDepartment))
		require.Equal(t, "Arthur Ashe", rec.String(FieldSite))
		require.Equal(t, "Sam Smith", rec.String(FieldSupervisorName))
		require.Equal(t, "1042", rec.String(FieldEmployeeNumber))
		require.Equal(t, hire, *rec.Date(FieldHireDate))
	})
	t.Run("current columns win over empty aliases", func(t *testing.T) {
		rec := StaffMapping.Apply(map[string]any{
			"email":         "a@b.org",
			"email_address": "",
			"hire_date":     "2012-08-01",
			"site":          "Phillis Wheatley",
		})
		require.Equal(t, "a@b.org", rec.String(FieldEmail))
		require.Equal(t, hire, *rec.Date(FieldHireDate))
		require.Equal(t, "", rec.String(FieldFullName))
		require.Nil(t, rec.Date(FieldSupervisorEmail))
	})
}

func TestLegacyApplicationMapping(t *testing.T) {
	rec := LegacyApplicationMapping.Apply(map[string]any{
		"Timestamp":               "2025-04-14T16:40:38",
		"Email Address":           "ebunton@firstlineschools.org",
		"Sabbatical Option":       "8 Weeks - 100% Salary",
		"Preferred Dates":         "1/5/2026",
		"Date Flexibility":        "Yes",
		"Flexibility Explanation": "could start after Thanksgiving",
		"Manager Discussion":      "No",
		"Additional Notes":        "Thank you!",
	})
	require.Equal(t, "8 Weeks - 100% Salary", rec.String(FieldLeaveOption))
	require.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), *rec.Date(FieldStartDate))
	require.Equal(t, time.Date(2025, time.April, 14, 16, 40, 38, 0, time.UTC), *rec.Date(FieldSubmittedAt))
	flexible, ok := rec.Bool(FieldFlexible)
	require.True(t, ok)
	require.True(t, flexible)
	discussed, ok := rec.Bool(FieldManagerDiscussed)
	require.True(t, ok)
	require.False(t, discussed)
	require.Equal(t, "Thank you!", rec.String(FieldAdditionalComments))
}
