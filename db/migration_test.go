package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActiveApplicationIndex(t *testing.T) {
	require.Equal(t,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_active_employee ON applications (LOWER(employee_email)) "+
			"WHERE status IN ('submitted', 'tentatively_approved', 'plan_submitted', 'approved')",
		activeApplicationIndex())
}
