package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
	"sabbatical-backend/config"
	"sabbatical-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/applications/{id}/review [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/applications/123-321/review"
		require.Equal(t, true, r1.MatchString(validUri))

		invalidUri := "/api/v1/applications/review"
		require.Equal(t, false, r1.MatchString(invalidUri))

		path, method, err = parseSwaggerPattern("/api/v1/applications/{id}/approvals/{taskId}/deny [post]")
		require.Nil(t, err)
		require.Equal(t, POST, method)
		r2 := pathToRegex(path)

		require.Equal(t, true, r2.MatchString("/api/v1/applications/123-321/approvals/qwe-ewr123-wr-12/deny"))
		require.Equal(t, false, r2.MatchString("/api/v1/applications/we-ewr123-wr-12/approvals/deny"))
	})
	t.Run(`rules by role`, func(t *testing.T) {
		NewHandler()
		staff := models.Actor{Email: "staff@firstline.org", Roles: []models.UserRole{models.StaffRole}}
		talent := models.Actor{Email: "talent@firstline.org", Roles: []models.UserRole{models.StaffRole, models.TalentRole}}
		admin := models.Actor{Email: "admin@firstline.org", Roles: []models.UserRole{models.StaffRole, models.AdminRole}}

		handler, found := Instance.GetRuleFunc("POST", "/api/v1/applications/abc/review")
		require.True(t, found)
		require.False(t, handler(staff, "/api/v1/applications/abc/review"))
		require.True(t, handler(talent, "/api/v1/applications/abc/review"))

		handler, found = Instance.GetRuleFunc("delete", "/api/v1/applications/abc/")
		require.True(t, found)
		require.False(t, handler(talent, ""))
		require.True(t, handler(admin, ""))

		handler, found = Instance.GetRuleFunc("POST", "/api/v1/applications/list")
		require.True(t, found)
		require.True(t, handler(staff, ""))

		_, found = Instance.GetRuleFunc("GET", "/api/v1/unknown")
		require.False(t, found)

		permissions := Instance.GetPermissions(talent.Roles)
		require.Contains(t, permissions[models.ApplicationModule], models.FlowPermission)
		require.NotContains(t, permissions[models.ApplicationModule], models.ManagePermission)
	})
}

func TestResolveRoles(t *testing.T) {
	membership := config.RoleMembership{
		Talent: []string{"talent@firstline.org"},
		HR:     []string{"hr@firstline.org", "talent@firstline.org"},
		CEO:    []string{"ceo@firstline.org"},
		Admin:  []string{"admin@firstline.org"},
	}
	require.Equal(t, []models.UserRole{models.StaffRole}, ResolveRoles("someone@firstline.org", membership, false))
	require.Equal(t, []models.UserRole{models.StaffRole, models.DirectorRole}, ResolveRoles("someone@firstline.org", membership, true))
	require.Equal(t, []models.UserRole{models.StaffRole, models.TalentRole, models.HRRole}, ResolveRoles(" Talent@FirstLine.org ", membership, false))
	require.Equal(t, []models.UserRole{models.StaffRole, models.AdminRole}, ResolveRoles("admin@firstline.org", membership, false))
	require.Equal(t, []models.UserRole{models.StaffRole}, ResolveRoles("", membership, true))
}
