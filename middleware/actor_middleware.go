package middleware

import (
	"sabbatical-backend/config"
	"sabbatical-backend/lib/rbac"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	authutils "sabbatical-backend/lib/utils/auth-utils"
	"sabbatical-backend/models"
	apimodels "sabbatical-backend/models/api"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const actorKey = "actor"

// ActorRequired turns the token subject into an Actor with resolved roles.
func ActorRequired(directory staffdirectory.Provider, membership config.RoleMembership, allowedDomain string) fiber.Handler {
	allowedDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(allowedDomain), "@"))
	return func(ctx *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(authutils.GetClaimString(ctx, "sub")))
		if email == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("Authentication required"))
		}
		if allowedDomain != "" && !strings.HasSuffix(email, "@"+allowedDomain) {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("Only " + allowedDomain + " accounts can use this application"))
		}
		isDirector := false
		if directory != nil {
			var err error
			isDirector, err = directory.HasDirectReports(email)
			if err != nil {
				log.WithError(err).WithField("user", email).Error("failed to resolve direct reports")
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("Staff directory is temporarily unavailable"))
			}
		}
		ctx.Locals(actorKey, models.Actor{
			Email: email,
			Name:  authutils.GetClaimString(ctx, "name"),
			Roles: rbac.ResolveRoles(email, membership, isDirector),
		})
		return ctx.Next()
	}
}

func GetActor(ctx *fiber.Ctx) models.Actor {
	actor, _ := ctx.Locals(actorKey).(models.Actor)
	return actor
}
