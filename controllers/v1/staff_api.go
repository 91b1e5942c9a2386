package apiv1

import (
	"sabbatical-backend/controllers"
	"sabbatical-backend/lib/application"
	"sabbatical-backend/lib/rbac"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/middleware"
	"sabbatical-backend/models"
	apimodels "sabbatical-backend/models/api"
	staffapimodels "sabbatical-backend/models/api/staff"

	"github.com/gofiber/fiber/v2"
)

type staffApiController struct {
	controllers.BaseAPIController
}

func InitStaffApiRouters(app *fiber.App) {
	controller := staffApiController{}
	app.Get("user", controller.user)
	app.Get("employee_lookup", controller.employeeLookup)
	app.Get("eligibility_check", controller.eligibilityCheck)
	app.Get("site_conflicts", controller.siteConflicts)
	app.Get("duplicate_check", controller.duplicateCheck)
	app.Get("leave_options", controller.leaveOptions)
}

// @Summary Current user
// @Tags Staff
// @Description Caller identity, resolved roles and directory record
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=staffapimodels.UserView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/user [get]
func (c *staffApiController) user(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	emp, err := staffdirectory.Instance.Lookup(actor.Email)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to look up the current user")
	}
	view := staffapimodels.UserConvert(actor, emp)
	view.Permissions = rbac.Instance.GetPermissions(actor.Roles)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Employee lookup
// @Tags Staff
// @Description Directory record of an employee. Staff can only look up themselves
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email				query		string	false	"employee email, defaults to the caller"
// @Success 200 {object} apimodels.Response{data=staffdirectory.Employee}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/employee_lookup [get]
func (c *staffApiController) employeeLookup(ctx *fiber.Ctx) error {
	emp, err := application.Instance.EmployeeLookup(middleware.GetActor(ctx), ctx.Query("email"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to look up employee")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(emp))
}

// @Summary Eligibility check
// @Tags Staff
// @Description Years of service against the eligibility threshold
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email				query		string	false	"employee email, defaults to the caller"
// @Success 200 {object} apimodels.Response{data=staffapimodels.EligibilityView}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/eligibility_check [get]
func (c *staffApiController) eligibilityCheck(ctx *fiber.Ctx) error {
	result, err := application.Instance.Eligibility(middleware.GetActor(ctx), ctx.Query("email"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to check eligibility")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Site conflicts
// @Tags Staff
// @Description Overlapping active sabbaticals at a site
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   site				query		string	true	"site"
// @Param   start_date			query		string	true	"YYYY-MM-DD"
// @Param   end_date			query		string	true	"YYYY-MM-DD"
// @Param   exclude_id			query		string	false	"application to ignore"
// @Success 200 {object} apimodels.Response{data=conflicts.Report}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/site_conflicts [get]
func (c *staffApiController) siteConflicts(ctx *fiber.Ctx) error {
	report, err := application.Instance.SiteConflicts(ctx.Query("site"), ctx.Query("start_date"), ctx.Query("end_date"), ctx.Query("exclude_id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to check site conflicts")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(report))
}

// @Summary Duplicate check
// @Tags Staff
// @Description Whether the employee already has an active application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   email				query		string	false	"employee email, defaults to the caller"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.DuplicateCheckView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/duplicate_check [get]
func (c *staffApiController) duplicateCheck(ctx *fiber.Ctx) error {
	result, err := application.Instance.DuplicateCheck(middleware.GetActor(ctx), ctx.Query("email"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to check for an active application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Leave options
// @Tags Staff
// @Description Available sabbatical options
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]models.LeaveOptionInfo}
// @router /api/v1/leave_options [get]
func (c *staffApiController) leaveOptions(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(models.LeaveOptions))
}
