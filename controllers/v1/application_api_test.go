package apiv1

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sabbatical-backend/lib/application"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	applicationapimodels "sabbatical-backend/models/api/application"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeApplications struct {
	application.Provider
	actor models.Actor
}

func (f *fakeApplications) Get(actor models.Actor, id string) (applicationapimodels.ApplicationView, error) {
	f.actor = actor
	switch id {
	case "app-1":
		return applicationapimodels.ApplicationView{ID: id, EmployeeEmail: "jane@example.org"}, nil
	case "broken":
		return applicationapimodels.ApplicationView{}, errors.New("connection reset")
	}
	return applicationapimodels.ApplicationView{}, apperrors.NotFound("Application not found")
}

func (f *fakeApplications) List(actor models.Actor, request applicationapimodels.ListRequest) ([]applicationapimodels.ApplicationView, int64, error) {
	return []applicationapimodels.ApplicationView{{ID: "app-1"}}, 1, nil
}

func (f *fakeApplications) Review(actor models.Actor, id string, request applicationapimodels.ReviewRequest) (applicationapimodels.ApplicationView, error) {
	return applicationapimodels.ApplicationView{}, apperrors.Forbidden(apperrors.StageMessage)
}

type testResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	RowCount int64           `json:"row_count"`
}

func newTestApp(t *testing.T) (*fiber.App, *fakeApplications) {
	fake := &fakeApplications{}
	prev := application.Instance
	application.Instance = fake
	t.Cleanup(func() { application.Instance = prev })

	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("actor", models.Actor{Email: "jane@example.org", Name: "Jane Doe", Roles: []models.UserRole{models.StaffRole}})
		return ctx.Next()
	})
	InitApplicationApiRouters(app)
	return app, fake
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, testResponse) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var result testResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &result), string(raw))
	return resp.StatusCode, result
}

func TestApplicationApi(t *testing.T) {
	app, fake := newTestApp(t)

	t.Run("get", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodGet, "/applications/app-1", "")
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "success", resp.Status)
		var view applicationapimodels.ApplicationView
		require.NoError(t, json.Unmarshal(resp.Data, &view))
		require.Equal(t, "app-1", view.ID)
		require.Equal(t, "jane@example.org", fake.actor.Email)
	})
	t.Run("not found", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodGet, "/applications/missing", "")
		require.Equal(t, fiber.StatusNotFound, status)
		require.Equal(t, "fail", resp.Status)
		require.Equal(t, "Application not found", resp.Message)
	})
	t.Run("internal error hides the cause", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodGet, "/applications/broken", "")
		require.Equal(t, fiber.StatusInternalServerError, status)
		require.Equal(t, "Failed to get application", resp.Message)
	})
	t.Run("list without body", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodPost, "/applications/list", "")
		require.Equal(t, fiber.StatusOK, status)
		require.EqualValues(t, 1, resp.RowCount)
	})
	t.Run("list with unknown status", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodPost, "/applications/list", `{"status":"pending"}`)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Contains(t, resp.Message, "unknown status")
	})
	t.Run("review with bad decision", func(t *testing.T) {
		status, _ := doRequest(t, app, http.MethodPost, "/applications/app-1/review", `{"decision":"maybe"}`)
		require.Equal(t, fiber.StatusBadRequest, status)
	})
	t.Run("review at the wrong stage", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodPost, "/applications/app-1/review", `{"decision":"approved"}`)
		require.Equal(t, fiber.StatusForbidden, status)
		require.Equal(t, apperrors.StageMessage, resp.Message)
	})
	t.Run("submit validation", func(t *testing.T) {
		status, resp := doRequest(t, app, http.MethodPost, "/applications", `{"start_date":"2026-13-01","leave_option":"8_weeks_full_pay","sabbatical_purpose":"rest"}`)
		require.Equal(t, fiber.StatusBadRequest, status)
		require.Equal(t, "fail", resp.Status)
	})
}
