package middleware

import (
	"net/http"
	"net/http/httptest"
	"sabbatical-backend/config"
	"sabbatical-backend/lib/rbac"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/models"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func withActor(actor models.Actor) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals(actorKey, actor)
		return ctx.Next()
	}
}

func ok(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusOK)
}

func status(t *testing.T, app *fiber.App, method, path, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(16))
	app.Post("/api/v1/applications", ok)
	app.Post("/api/v1/admin/import", ok)

	require.Equal(t, fiber.StatusOK, status(t, app, http.MethodPost, "/api/v1/applications", `{"a":1}`))
	require.Equal(t, fiber.StatusRequestEntityTooLarge, status(t, app, http.MethodPost, "/api/v1/applications", strings.Repeat("x", 17)))
	require.Equal(t, fiber.StatusOK, status(t, app, http.MethodPost, "/api/v1/admin/import", strings.Repeat("x", 64)))
}

func TestAdminRequired(t *testing.T) {
	staff := fiber.New()
	staff.Use(withActor(models.Actor{Email: "jane@example.org", Roles: []models.UserRole{models.StaffRole}}), AdminRequired())
	staff.Get("/admin", ok)
	require.Equal(t, fiber.StatusForbidden, status(t, staff, http.MethodGet, "/admin", ""))

	admin := fiber.New()
	admin.Use(withActor(models.Actor{Email: "root@example.org", Roles: []models.UserRole{models.StaffRole, models.AdminRole}}), AdminRequired())
	admin.Get("/admin", ok)
	require.Equal(t, fiber.StatusOK, status(t, admin, http.MethodGet, "/admin", ""))
}

func TestRbacMiddleware(t *testing.T) {
	rbac.NewHandler()
	newApp := func(actor models.Actor) *fiber.App {
		app := fiber.New()
		app.Use(withActor(actor), RbacMiddleware())
		app.Post("/api/v1/applications/:id/review", ok)
		app.Get("/api/v1/applications/:id", ok)
		return app
	}
	staff := newApp(models.Actor{Email: "jane@example.org", Roles: []models.UserRole{models.StaffRole}})
	require.Equal(t, fiber.StatusForbidden, status(t, staff, http.MethodPost, "/api/v1/applications/abc/review", ""))
	require.Equal(t, fiber.StatusOK, status(t, staff, http.MethodGet, "/api/v1/applications/abc", ""))

	talent := newApp(models.Actor{Email: "talent@example.org", Roles: []models.UserRole{models.StaffRole, models.TalentRole}})
	require.Equal(t, fiber.StatusOK, status(t, talent, http.MethodPost, "/api/v1/applications/abc/review", ""))

	anonymous := newApp(models.Actor{})
	require.Equal(t, fiber.StatusForbidden, status(t, anonymous, http.MethodGet, "/api/v1/applications/abc", ""))
}

type reportsDirectory struct {
	staffdirectory.Provider
	directors []string
	err       error
}

func (d reportsDirectory) HasDirectReports(email string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	for _, director := range d.directors {
		if director == email {
			return true, nil
		}
	}
	return false, nil
}

func withToken(sub string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub, "name": "Jane Doe"}))
		return ctx.Next()
	}
}

func TestActorRequired(t *testing.T) {
	newApp := func(directory staffdirectory.Provider, sub string) (*fiber.App, *models.Actor) {
		var seen models.Actor
		app := fiber.New()
		app.Use(withToken(sub), ActorRequired(directory, config.RoleMembership{}, "example.org"))
		app.Get("/me", func(ctx *fiber.Ctx) error {
			seen = GetActor(ctx)
			return ctx.SendStatus(fiber.StatusOK)
		})
		return app, &seen
	}

	app, seen := newApp(reportsDirectory{directors: []string{"sam@example.org"}}, "Sam@Example.org")
	require.Equal(t, fiber.StatusOK, status(t, app, http.MethodGet, "/me", ""))
	require.Equal(t, "sam@example.org", seen.Email)
	require.True(t, seen.HasAny(models.DirectorRole))

	app, _ = newApp(reportsDirectory{}, "jane@other.org")
	require.Equal(t, fiber.StatusForbidden, status(t, app, http.MethodGet, "/me", ""))

	app, _ = newApp(reportsDirectory{}, "")
	require.Equal(t, fiber.StatusUnauthorized, status(t, app, http.MethodGet, "/me", ""))

	app, seen = newApp(reportsDirectory{err: errors.New("connection refused")}, "sam@example.org")
	require.Equal(t, fiber.StatusServiceUnavailable, status(t, app, http.MethodGet, "/me", ""))
	require.Empty(t, seen.Email)
}
