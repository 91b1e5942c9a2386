package dbmodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameEmail(t *testing.T) {
	require.True(t, SameEmail(" Jane@Example.org", "jane@example.org "))
	require.False(t, SameEmail("", ""))
	require.False(t, SameEmail("jane@example.org", "bob@example.org"))

	app := Application{EmployeeEmail: "jane@example.org"}
	require.True(t, app.IsOwner("JANE@example.org"))
	task := ApprovalTask{ApproverEmail: "sam@example.org"}
	require.True(t, task.IsApprover(" sam@example.org"))
	require.False(t, task.IsApprover("jane@example.org"))
}
