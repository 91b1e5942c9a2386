package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sabbatical-backend/config"
	apiv1 "sabbatical-backend/controllers/v1"
	"sabbatical-backend/fiberlog"
	"sabbatical-backend/initializers"
	"sabbatical-backend/lib/notification"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	"sabbatical-backend/lib/ws"
	"sabbatical-backend/middleware"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

//go:generate go tool swag init --outputTypes json -o ./docs

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // spreadsheet uploads
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	if _, err := os.Stat(swaggerCfg.FilePath); err == nil {
		app.Use(swagger.New(swaggerCfg))
	} else {
		log.Warn("swagger.json not found, run go generate to build the API docs")
	}

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE",
	}))
	if config.Conf.App.ErrNotifyURL != "" {
		apiV1.Use(middleware.ErrNotify(config.Conf.App.ErrNotifyURL, config.Conf.App.ProgramName))
	}
	apiV1.Use(middleware.WithBodyLimit(config.Conf.App.BodyLimit))
	apiv1.InitAuthApiRouters(apiV1)

	apiV1.Use(middleware.AuthorizationRequired())
	apiV1.Use(middleware.ActorRequired(staffdirectory.Instance, config.Conf.RoleMembership(), config.Conf.Auth.AllowedDomain))
	ws.InitWsRouters(apiV1)
	apiV1.Use(middleware.RbacMiddleware())
	apiv1.InitStaffApiRouters(apiV1)
	apiv1.InitApplicationApiRouters(apiV1)
	apiv1.InitApprovalsApiRouters(apiV1)
	apiv1.InitDateChangeApiRouters(apiV1)
	apiv1.InitAdminApiRouters(apiV1)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		<-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		// pending notifications finish before exit
		notification.Instance.Wait()
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
