package apiv1

import (
	"sabbatical-backend/controllers"
	legacyimport "sabbatical-backend/lib/legacy-import"
	"sabbatical-backend/lib/notification"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/middleware"
	apimodels "sabbatical-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type adminApiController struct {
	controllers.BaseAPIController
}

func InitAdminApiRouters(app *fiber.App) {
	controller := adminApiController{}
	app.Route("admin", func(router fiber.Router) {
		router.Use(middleware.AdminRequired())
		router.Get("email_templates", controller.emailTemplates)
		router.Get("email_templates/:tag/preview", controller.previewTemplate)
		router.Get("notifications/:id", controller.notifications)
		router.Post("import", controller.importApplications)
		router.Post("roster", controller.uploadRoster)
	})
}

// @Summary Email templates
// @Tags Admin
// @Description Notification templates
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]notification.TemplateInfo}
// @Failure 403
// @router /api/v1/admin/email_templates [get]
func (c *adminApiController) emailTemplates(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(notification.Instance.Templates()))
}

// @Summary Preview email template
// @Tags Admin
// @Description Template rendered with sample data
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   tag          		path    string  	true    "template tag"
// @Success 200 {object} apimodels.Response{data=notification.Rendered}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/email_templates/{tag}/preview [get]
func (c *adminApiController) previewTemplate(ctx *fiber.Ctx) error {
	tag, err := c.GetIDByKey(ctx, "tag")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := notification.Instance.Preview(notification.Tag(tag))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to render template preview")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Notification log
// @Tags Admin
// @Description Delivery attempts for one application
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  	true    "application ID"
// @Success 200 {object} apimodels.Response{data=[]dbmodels.NotificationLog}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/notifications/{id} [get]
func (c *adminApiController) notifications(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := notification.Instance.Log(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read notification log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Import applications
// @Tags Admin
// @Description Imports intake form responses from an xlsx export
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"xlsx file"
// @Success 200 {object} apimodels.Response{data=legacyimportapimodels.ImportResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/import [post]
func (c *adminApiController) importApplications(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded file")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()

	result, err := legacyimport.Instance.Import(middleware.GetActor(ctx), buffer)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to import applications")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Upload staff roster
// @Tags Admin
// @Description Loads an xlsx staff export into the directory table
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   file				formData	file	true	"xlsx file"
// @Success 200 {object} apimodels.Response{data=int}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/roster [post]
func (c *adminApiController) uploadRoster(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("failed to open uploaded file")
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	defer buffer.Close()

	loaded, err := staffdirectory.UploadRoster(ctx.UserContext(), buffer)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to load staff roster")
	}
	c.GetLogger(ctx).WithField("rows", loaded).Info("staff roster loaded")
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(loaded))
}
