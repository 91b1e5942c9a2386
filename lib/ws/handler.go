package ws

import (
	wsclient "sabbatical-backend/lib/ws/client"
	connectionhub "sabbatical-backend/lib/ws/hub/connection-hub"
	"sabbatical-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const emailKey = "wsEmail"

func InitWsRouters(app *fiber.App) {
	app.Use("/ws", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals(emailKey, middleware.GetActor(ctx).Email)
		return ctx.Next()
	})
	app.Get("/ws", websocket.New(notificationsHandler))
}

// @Summary Live notifications
// @Tags Websocket
// @Description Pushes a message for every notification addressed to the current user
// @Param   Authorization		header		string		true		"Authorization token"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 401
// @Failure 426
// @router /api/v1/ws [get]
func notificationsHandler(c *websocket.Conn) {
	email, _ := c.Locals(emailKey).(string)
	if email == "" {
		return
	}
	connectionhub.Instance.AddClient(email, c)
	defer connectionhub.Instance.DeleteClient(email, c)
	wsclient.NewClient(email, c).Dispatch()
}
