package middleware

import (
	"sabbatical-backend/lib/rbac"

	"github.com/gofiber/fiber/v2"
)

func RbacMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		actor := GetActor(ctx)
		if actor.Email == "" || len(actor.Roles) == 0 {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "RBAC_FORBIDDEN",
			})
		}

		handler, found := rbac.Instance.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}

		if !handler(actor, ctx.Path()) {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "RBAC_FORBIDDEN",
			})
		}

		return ctx.Next()
	}
}
