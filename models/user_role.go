package models

import "slices"

type UserRole string

const (
	StaffRole    UserRole = "STAFF"
	DirectorRole UserRole = "DIRECTOR"
	TalentRole   UserRole = "TALENT"
	HRRole       UserRole = "HR"
	CEORole      UserRole = "CEO"
	AdminRole    UserRole = "ADMIN"
)

var roleHumanName = map[UserRole]string{
	StaffRole:    "Staff",
	DirectorRole: "Director",
	TalentRole:   "Talent",
	HRRole:       "HR",
	CEORole:      "CEO",
	AdminRole:    "Administrator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

const SystemUser = "System"

// Actor is the authenticated caller with resolved roles.
type Actor struct {
	Email string
	Name  string
	Roles []UserRole
}

func (a Actor) Has(role UserRole) bool {
	return slices.Contains(a.Roles, role)
}

func (a Actor) HasAny(roles ...UserRole) bool {
	for _, role := range roles {
		if a.Has(role) {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.Has(AdminRole)
}

// IsReviewer is true for roles that see every application.
func (a Actor) IsReviewer() bool {
	return a.HasAny(TalentRole, HRRole, CEORole, AdminRole)
}

func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Email
}
