package middleware

import (
	"fmt"
	apimodels "sabbatical-backend/models/api"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit rejects oversized JSON requests. Spreadsheet uploads are limited by the server config.
func WithBodyLimit(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.HasSuffix(c.Path(), "/admin/import") ||
			strings.HasSuffix(c.Path(), "/admin/roster") {
			return c.Next()
		}
		contentLength := c.Get("Content-Length")
		if contentLength != "" && contentLength != "0" {
			size, err := strconv.ParseInt(contentLength, 10, 64)
			if err == nil && size > limit {
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(apimodels.NewError(fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", limit)))
			}
		}

		return c.Next()
	}
}
