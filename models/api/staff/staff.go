package staffapimodels

import (
	"sabbatical-backend/lib/eligibility"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/models"
)

type EligibilityView struct {
	Email         string `json:"email"`
	EmployeeName  string `json:"employee_name"`
	HireDate      string `json:"hire_date,omitempty"`
	YearsRequired int    `json:"years_required"`
	eligibility.Result
}

type UserView struct {
	Email       string                                `json:"email"`
	Name        string                                `json:"name"`
	Roles       []models.UserRole                     `json:"roles"`
	RoleNames   []string                              `json:"role_names"`
	Employee    *staffdirectory.Employee              `json:"employee"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}

func UserConvert(actor models.Actor, emp *staffdirectory.Employee) UserView {
	names := make([]string, 0, len(actor.Roles))
	for _, role := range actor.Roles {
		names = append(names, role.ToHuman())
	}
	return UserView{
		Email:     actor.Email,
		Name:      actor.DisplayName(),
		Roles:     actor.Roles,
		RoleNames: names,
		Employee:  emp,
	}
}
