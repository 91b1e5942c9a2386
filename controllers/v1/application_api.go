package apiv1

import (
	"fmt"
	"sabbatical-backend/controllers"
	"sabbatical-backend/lib/application"
	applicationhistory "sabbatical-backend/lib/application-history"
	"sabbatical-backend/middleware"
	apimodels "sabbatical-backend/models/api"
	applicationapimodels "sabbatical-backend/models/api/application"
	"time"

	"github.com/gofiber/fiber/v2"
)

type applicationApiController struct {
	controllers.BaseAPIController
}

func InitApplicationApiRouters(app *fiber.App) {
	controller := applicationApiController{}
	app.Route("applications", func(router fiber.Router) {
		router.Post("", controller.submit)
		router.Post("list", controller.list)
		router.Post("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Delete("", controller.delete)
			idRoute.Post("review", controller.review)     // talent or hr stage decision
			idRoute.Post("withdraw", controller.withdraw) // owner backs out
			idRoute.Post("plan", controller.submitPlan)
			idRoute.Post("plan/resubmit", controller.resubmitPlan)
			idRoute.Get("history", controller.history)
			idRoute.Get("letter", controller.letter)
		})
	})
}

// @Summary Submit
// @Tags Application
// @Description Submit a sabbatical application for the caller
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 applicationapimodels.SubmitRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.SubmitResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications [post]
func (c *applicationApiController) submit(ctx *fiber.Ctx) error {
	var payload applicationapimodels.SubmitRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.Submit(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to submit application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary List
// @Tags Application
// @Description Applications visible to the caller
// @Param	body body	 applicationapimodels.ListRequest	true	"request filter body"
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/list [post]
func (c *applicationApiController) list(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ListRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := application.Instance.List(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list applications")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Export
// @Tags Application
// @Description Excel export of applications
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	applicationapimodels.ExportRequest	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/export [post]
func (c *applicationApiController) export(ctx *fiber.Ctx) error {
	var payload applicationapimodels.ExportRequest
	if len(ctx.Body()) != 0 {
		if err := c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := application.Instance.Export(middleware.GetActor(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to export applications")
	}
	fileName := fmt.Sprintf("sabbatical-applications-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.Status(fiber.StatusOK).Send(data)
}

// @Summary Get
// @Tags Application
// @Description Get an application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id} [get]
func (c *applicationApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.Get(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Delete
// @Tags Application
// @Description Delete an application with its approvals and date changes. History is kept
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id} [delete]
func (c *applicationApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = application.Instance.Delete(middleware.GetActor(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to delete application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Review
// @Tags Application
// @Description Talent or HR decision on the current stage
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 applicationapimodels.ReviewRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/review [post]
func (c *applicationApiController) review(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.ReviewRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.Review(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to review application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Withdraw
// @Tags Application
// @Description Owner withdraws the application before final approval
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 applicationapimodels.WithdrawRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/withdraw [post]
func (c *applicationApiController) withdraw(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.WithdrawRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.Withdraw(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to withdraw application")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Submit plan
// @Tags Application
// @Description Owner submits the coverage plan and the approval chain is created
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 applicationapimodels.PlanRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/plan [post]
func (c *applicationApiController) submitPlan(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.PlanRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.SubmitPlan(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to submit plan")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Resubmit plan
// @Tags Application
// @Description Owner resubmits the plan after changes were requested. Every approval restarts
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Param	body body	 applicationapimodels.ResubmitPlanRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=applicationapimodels.ApplicationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/plan/resubmit [post]
func (c *applicationApiController) resubmitPlan(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload applicationapimodels.ResubmitPlanRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := application.Instance.ResubmitPlan(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to resubmit plan")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary History
// @Tags Application
// @Description Audit trail of an application, oldest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200 {object} apimodels.Response{data=[]applicationapimodels.HistoryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/history [get]
func (c *applicationApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := applicationhistory.Instance.List(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to get application history")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Approval letter
// @Tags Application
// @Description PDF letter for an approved application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "application ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/letter [get]
func (c *applicationApiController) letter(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := application.Instance.Letter(ctx.UserContext(), middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to generate approval letter")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="sabbatical-approval-`+id+`.pdf"`)
	return ctx.Status(fiber.StatusOK).Send(data)
}
