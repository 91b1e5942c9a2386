package rbac

import (
	"sabbatical-backend/models"
)

var (
	AllRoles         = []models.UserRole{models.StaffRole, models.DirectorRole, models.TalentRole, models.HRRole, models.CEORole, models.AdminRole}
	ReviewerRoleSet  = []models.UserRole{models.TalentRole, models.HRRole, models.CEORole, models.AdminRole}
	StageReviewerSet = []models.UserRole{models.TalentRole, models.HRRole, models.AdminRole}
	AdminRoleSet     = []models.UserRole{models.AdminRole}
)

func (i *impl) initRules() {
	i.directory()
	i.applications()
	i.approvals()
	i.dateChanges()
	i.export()
	i.admin()
}

func (i *impl) directory() {
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/user [get]", nil)
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/employee_lookup [get]", nil)
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/eligibility_check [get]", nil)
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/site_conflicts [get]", nil)
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/duplicate_check [get]", nil)
	i.RegisterRule(models.DirectoryModule, models.ViewPermission, AllRoles, "/api/v1/leave_options [get]", nil)
}

func (i *impl) applications() {
	// VIEW, row visibility is checked by the handler
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/list [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id} [get]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/history [get]", nil)
	i.RegisterRule(models.ApplicationModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/letter [get]", nil)
	// CREATE, ownership is checked by the state machine
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, AllRoles, "/api/v1/applications [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, AllRoles, "/api/v1/applications/{id}/withdraw [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, AllRoles, "/api/v1/applications/{id}/plan [post]", nil)
	i.RegisterRule(models.ApplicationModule, models.CreatePermission, AllRoles, "/api/v1/applications/{id}/plan/resubmit [post]", nil)
	// FLOW
	i.RegisterRule(models.ApplicationModule, models.FlowPermission, StageReviewerSet, "/api/v1/applications/{id}/review [post]", nil)
	// MANAGE
	i.RegisterRule(models.ApplicationModule, models.ManagePermission, AdminRoleSet, "/api/v1/applications/{id} [delete]", nil)
}

func (i *impl) approvals() {
	// the assigned approver is checked by the handler
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/approvals/pending [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/approvals [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/applications/{id}/approvals/{taskId}/approve [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/applications/{id}/approvals/{taskId}/request_changes [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/applications/{id}/approvals/{taskId}/deny [post]", nil)
}

func (i *impl) dateChanges() {
	i.RegisterRule(models.DateChangeModule, models.ViewPermission, AllRoles, "/api/v1/applications/{id}/date_change [get]", nil)
	i.RegisterRule(models.DateChangeModule, models.CreatePermission, AllRoles, "/api/v1/applications/{id}/date_change [post]", nil)
	i.RegisterRule(models.DateChangeModule, models.FlowPermission, StageReviewerSet, "/api/v1/applications/{id}/date_change/{requestId}/review [post]", nil)
}

func (i *impl) export() {
	i.RegisterRule(models.ExportModule, models.ViewPermission, ReviewerRoleSet, "/api/v1/applications/export [post]", nil)
}

func (i *impl) admin() {
	i.RegisterRule(models.AdminModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/email_templates [get]", nil)
	i.RegisterRule(models.AdminModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/email_templates/{tag}/preview [get]", nil)
	i.RegisterRule(models.AdminModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/notifications/{id} [get]", nil)
	i.RegisterRule(models.AdminModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/import [post]", nil)
	i.RegisterRule(models.AdminModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/roster [post]", nil)
}
