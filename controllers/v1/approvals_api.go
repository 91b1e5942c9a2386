package apiv1

import (
	"sabbatical-backend/controllers"
	"sabbatical-backend/lib/application"
	approvaltask "sabbatical-backend/lib/approval-task"
	"sabbatical-backend/middleware"
	apimodels "sabbatical-backend/models/api"
	applicationapimodels "sabbatical-backend/models/api/application"

	"github.com/gofiber/fiber/v2"
)

type approvalsApiController struct {
	controllers.BaseAPIController
}

func InitApprovalsApiRouters(app *fiber.App) {
	controller := approvalsApiController{}
	app.Get("approvals/pending", controller.pending)
	app.Route("applications/:id/approvals", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post(":taskId/approve", controller.approve)
		router.Post(":taskId/request_changes", controller.requestChanges)
		router.Post(":taskId/deny", controller.deny)
	})
}

// @Summary Pending approvals
// @Tags Approvals
// @Description Plan approvals waiting for the caller
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.ApprovalInboxItem}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/pending [get]
func (c *approvalsApiController) pending(ctx *fiber.Ctx) error {
	result, err := approvaltask.Instance.Inbox(middleware.GetActor(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list pending approvals")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Approval chain
// @Tags Approvals
// @Description Approval records of an application in chain order
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true	"application ID"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.ApprovalTaskView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approvals [get]
func (c *approvalsApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := approvaltask.Instance.List(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list approvals")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Approve
// @Tags Approvals
// @Description Approve the plan as the assigned approver
// @Param   Authorization		header	string								true	"Authorization token"
// @Param   id          		path    string  				    		true    "application ID"
// @Param   taskId          	path    string  				    		true    "approval ID"
// @Param	body 				body	applicationapimodels.TaskActionRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approvals/{taskId}/approve [post]
func (c *approvalsApiController) approve(ctx *fiber.Ctx) error {
	return c.decide(ctx, applicationapimodels.TaskApprove)
}

// @Summary Request changes
// @Tags Approvals
// @Description Send the plan back to the owner. A comment is required
// @Param   Authorization		header	string								true	"Authorization token"
// @Param   id          		path    string  				    		true    "application ID"
// @Param   taskId          	path    string  				    		true    "approval ID"
// @Param	body 				body	applicationapimodels.TaskActionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approvals/{taskId}/request_changes [post]
func (c *approvalsApiController) requestChanges(ctx *fiber.Ctx) error {
	return c.decide(ctx, applicationapimodels.TaskRequestChanges)
}

// @Summary Deny
// @Tags Approvals
// @Description Deny the plan. The application is denied
// @Param   Authorization		header	string								true	"Authorization token"
// @Param   id          		path    string  				    		true    "application ID"
// @Param   taskId          	path    string  				    		true    "approval ID"
// @Param	body 				body	applicationapimodels.TaskActionRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/approvals/{taskId}/deny [post]
func (c *approvalsApiController) deny(ctx *fiber.Ctx) error {
	return c.decide(ctx, applicationapimodels.TaskDeny)
}

func (c *approvalsApiController) decide(ctx *fiber.Ctx, action applicationapimodels.TaskAction) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	taskID, err := c.GetIDByKey(ctx, "taskId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.TaskActionRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err = payload.Validate(action); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.DecideTask(middleware.GetActor(ctx), id, taskID, action, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to record approval decision")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
