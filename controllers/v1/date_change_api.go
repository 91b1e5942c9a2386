package apiv1

import (
	"sabbatical-backend/controllers"
	datechange "sabbatical-backend/lib/date-change"
	"sabbatical-backend/middleware"
	apimodels "sabbatical-backend/models/api"
	datechangeapimodels "sabbatical-backend/models/api/date-change"

	"github.com/gofiber/fiber/v2"
)

type dateChangeApiController struct {
	controllers.BaseAPIController
}

func InitDateChangeApiRouters(app *fiber.App) {
	controller := dateChangeApiController{}
	app.Route("applications/:id/date_change", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Post(":requestId/review", controller.review)
	})
}

// @Summary Date change requests
// @Tags Date change
// @Description Date change requests of an application, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "application ID"
// @Success 200 {object} apimodels.Response{data=[]datechangeapimodels.DateChangeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/date_change [get]
func (c *dateChangeApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := datechange.Instance.List(middleware.GetActor(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list date change requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Request date change
// @Tags Date change
// @Description Owner asks to move the sabbatical dates
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "application ID"
// @Param	body body	 datechangeapimodels.CreateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=datechangeapimodels.DateChangeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/date_change [post]
func (c *dateChangeApiController) create(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload datechangeapimodels.CreateRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := datechange.Instance.Request(middleware.GetActor(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to request a date change")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Review date change
// @Tags Date change
// @Description Talent or HR approves or denies a pending date change
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "application ID"
// @Param   requestId          	path    string  	true    "date change request ID"
// @Param	body body	 datechangeapimodels.ReviewRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=datechangeapimodels.DateChangeView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/applications/{id}/date_change/{requestId}/review [post]
func (c *dateChangeApiController) review(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	requestID, err := c.GetIDByKey(ctx, "requestId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload datechangeapimodels.ReviewRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := datechange.Instance.Review(middleware.GetActor(ctx), id, requestID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to review the date change")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
