package apiv1

import (
	"sabbatical-backend/config"
	"sabbatical-backend/controllers"
	authutils "sabbatical-backend/lib/utils/auth-utils"
	apimodels "sabbatical-backend/models/api"
	authapimodels "sabbatical-backend/models/api/auth"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	if config.Conf.Auth.DevMode == nil || !*config.Conf.Auth.DevMode {
		return
	}
	log.Warn("dev mode is enabled, tokens are issued without an identity provider")
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("dev_login", controller.devLogin)
	})
}

// @Summary Dev login
// @Tags Auth
// @Description Issues a token for any address. Available in dev mode only
// @Param	body				body		authapimodels.DevLoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/dev_login [post]
func (c *authApiController) devLogin(ctx *fiber.Ctx) error {
	var payload authapimodels.DevLoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Email == "" {
		payload.Email = config.Conf.Auth.DevUserEmail
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	token, err := authutils.GetToken(payload.Email, payload.Name)
	if err != nil {
		log.WithError(err).Error("failed to sign token")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("Failed to issue token"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(authapimodels.JWTResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)),
	}))
}
