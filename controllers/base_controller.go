package controllers

import (
	"net/url"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/middleware"
	apimodels "sabbatical-backend/models/api"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("unable to read the request body")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id, err := url.PathUnescape(ctx.Params(key))
	if err != nil {
		return "", errors.Errorf("invalid %v", key)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.Errorf("%v is required", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.WithFields(log.Fields{
		"method": ctx.Method(),
		"path":   ctx.Path(),
		"user":   middleware.GetActor(ctx).Email,
	})
}

// SendError maps an error kind to its status code. Internal errors are logged and hidden.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		logger.WithError(err).Error(msg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msg))
	}
	status := fiber.StatusInternalServerError
	switch kind {
	case apperrors.KindValidation:
		status = fiber.StatusBadRequest
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindForbidden:
		status = fiber.StatusForbidden
	case apperrors.KindConflict:
		status = fiber.StatusConflict
	case apperrors.KindUnavailable:
		status = fiber.StatusServiceUnavailable
		logger.WithError(err).Error(msg)
	}
	return ctx.Status(status).JSON(apimodels.NewError(apperrors.PublicMessage(err)))
}
