package rbac

import (
	"sabbatical-backend/config"
	"sabbatical-backend/models"
	"slices"
	"strings"
)

// ResolveRoles maps an identity to its roles. Every caller is staff.
func ResolveRoles(email string, membership config.RoleMembership, isDirector bool) []models.UserRole {
	email = strings.ToLower(strings.TrimSpace(email))
	roles := []models.UserRole{models.StaffRole}
	if email == "" {
		return roles
	}
	if isDirector {
		roles = append(roles, models.DirectorRole)
	}
	if slices.Contains(membership.Talent, email) {
		roles = append(roles, models.TalentRole)
	}
	if slices.Contains(membership.HR, email) {
		roles = append(roles, models.HRRole)
	}
	if slices.Contains(membership.CEO, email) {
		roles = append(roles, models.CEORole)
	}
	if slices.Contains(membership.Admin, email) {
		roles = append(roles, models.AdminRole)
	}
	return roles
}
