package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotice struct {
	Service string `json:"service"`
	Code    int    `json:"code"`
	Method  string `json:"method"`
	Path    string `json:"path"`
	User    string `json:"user,omitempty"`
	Error   string `json:"error"`
}

// ErrNotify posts a notice to addr for every 5xx response.
func ErrNotify(addr, service string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil {
			log.WithError(unmErr).Warn("error unmarshalling response body in middleware")
		}
		notice := errNotice{
			Service: service,
			Code:    statusCode,
			Method:  c.Method(),
			Path:    c.Path(),
			User:    GetActor(c).Email,
			Error:   data.Message,
		}
		if r := c.Route(); r != nil {
			notice.Path = r.Path
		}
		if notice.Error == "" {
			notice.Error = string(c.Response().Body())
		}

		go func() {
			payload, mErr := json.Marshal(notice)
			if mErr != nil {
				log.WithError(mErr).Warn("error encoding error notification")
				return
			}
			resp, reqErr := client.Post(addr, "application/json", strings.NewReader(string(payload)))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			_ = resp.Body.Close()
		}()
		return err
	}
}
