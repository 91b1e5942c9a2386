package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid      = "pid"
	TagLatency  = "latency"
	TagStatus   = "status"
	TagIP       = "ip"
	TagMethod   = "method"
	TagPath     = "path"
	TagURL      = "url"
	TagUA       = "ua"
	TagBody     = "body"
	TagResBody  = "resBody"
	TagBytesIn  = "bytesReceived"
	TagBytesOut = "bytesSent"
	TagUser     = "user"
	RequestID   = "requestId"
)

// bodies larger than this are not logged
const maxLoggedBody = 4096

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag returns the value logged under a tag
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, _ *data) interface{} {
			return c.OriginalURL()
		},
		TagUA: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			return loggableBody(c.Get(fiber.HeaderContentType), c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			return loggableBody(string(c.Response().Header.ContentType()), c.Response().Body())
		},
		TagBytesIn: func(c *fiber.Ctx, _ *data) interface{} {
			return len(c.Request().Body())
		},
		TagBytesOut: func(c *fiber.Ctx, _ *data) interface{} {
			return len(c.Response().Body())
		},
		TagUser: func(c *fiber.Ctx, _ *data) interface{} {
			if actor, ok := c.Locals("actor").(interface{ DisplayName() string }); ok {
				return actor.DisplayName()
			}
			return ""
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID, c.Get(fiber.HeaderXRequestID))
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

// only json bodies are logged, binary uploads and downloads are not
func loggableBody(contentType string, body []byte) string {
	if len(body) == 0 || len(body) > maxLoggedBody {
		return ""
	}
	if contentType != "" && !strings.Contains(contentType, "json") {
		return ""
	}
	return string(body)
}
