package middleware

import (
	apimodels "sabbatical-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func AdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetActor(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("Administrator access is required"))
		}
		return ctx.Next()
	}
}
