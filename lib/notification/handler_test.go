package notification

import (
	"sync"
	"testing"
	"time"

	"sabbatical-backend/lib/smtp"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	wsmodels "sabbatical-backend/models/ws"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  map[string]error
}

func (f *fakeSender) SendEMail(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.err[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeLogStore struct {
	mu   sync.Mutex
	logs []dbmodels.NotificationLog
}

func (f *fakeLogStore) Create(rec dbmodels.NotificationLog) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, rec)
	return "id", nil
}

func (f *fakeLogStore) List(applicationID string) ([]dbmodels.NotificationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []dbmodels.NotificationLog{}
	for _, rec := range f.logs {
		if rec.ApplicationID == applicationID {
			result = append(result, rec)
		}
	}
	return result, nil
}

type fakePusher struct {
	mu   sync.Mutex
	msgs []wsmodels.ServerMessage
}

func (f *fakePusher) SendMessage(msg wsmodels.ServerMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func sampleData() models.TemplateData {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return models.TemplateData{
		EmployeeName:  "Jane Doe",
		EmployeeEmail: "jane@example.org",
		Site:          "North",
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, 56),
		DurationWeeks: 8,
		LeaveOption:   "8 Weeks - 100% Salary",
	}
}

func TestSend(t *testing.T) {
	settings := Settings{
		Enabled:     true,
		ProgramName: "Sabbatical Program",
		BaseURL:     "https://portal.example.org/",
		TalentTeam:  []string{"talent@example.org"},
		HRTeam:      []string{"hr@example.org"},
	}

	t.Run("renders and logs each recipient", func(t *testing.T) {
		sender := &fakeSender{err: map[string]error{"hr@example.org": errors.New("mailbox full")}}
		logs := &fakeLogStore{}
		h := NewInstance(sender, logs, nil, settings)
		h.Send(Message{
			Template:      TplSubmittedToTalent,
			ApplicationID: "app-1",
			To:            []string{"Talent@Example.org "},
			Teams:         []Team{TeamTalent, TeamHR},
			Data:          sampleData(),
		})
		h.Wait()

		require.Len(t, sender.sent, 1)
		require.Equal(t, "talent@example.org", sender.sent[0].to)
		require.Equal(t, "New sabbatical application: Jane Doe", sender.sent[0].subject)
		require.Contains(t, sender.sent[0].body, "June 1, 2026 to July 27, 2026 (8 weeks)")
		require.Contains(t, sender.sent[0].body, "https://portal.example.org/applications/app-1")

		list, err := h.Log("app-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		statuses := map[string]dbmodels.NotificationStatus{}
		for _, rec := range list {
			statuses[rec.Recipient] = rec.Status
		}
		require.Equal(t, dbmodels.NotificationSent, statuses["talent@example.org"])
		require.Equal(t, dbmodels.NotificationFailed, statuses["hr@example.org"])
	})

	t.Run("skipped when smtp is not configured", func(t *testing.T) {
		sender := &fakeSender{err: map[string]error{"jane@example.org": smtp.ErrNotConfigured}}
		logs := &fakeLogStore{}
		h := NewInstance(sender, logs, nil, settings)
		h.Send(Message{Template: TplSubmittedConfirmation, ApplicationID: "app-2", To: []string{"jane@example.org"}, Data: sampleData()})
		h.Wait()
		require.Len(t, logs.logs, 1)
		require.Equal(t, dbmodels.NotificationSkipped, logs.logs[0].Status)
	})

	t.Run("pushes to open sessions", func(t *testing.T) {
		pusher := &fakePusher{}
		h := NewInstance(&fakeSender{}, &fakeLogStore{}, pusher, settings)
		h.Send(Message{Template: TplSubmittedConfirmation, ApplicationID: "app-4", To: []string{"jane@example.org"}, Data: sampleData()})
		h.Wait()
		require.Len(t, pusher.msgs, 1)
		require.Equal(t, "jane@example.org", pusher.msgs[0].ToEmail)
		require.Equal(t, string(TplSubmittedConfirmation), pusher.msgs[0].Code)
		require.Equal(t, "app-4", pusher.msgs[0].ApplicationID)
		require.NotEmpty(t, pusher.msgs[0].Msg)
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		sender := &fakeSender{}
		logs := &fakeLogStore{}
		disabled := settings
		disabled.Enabled = false
		h := NewInstance(sender, logs, nil, disabled)
		h.Send(Message{Template: TplWithdrawn, ApplicationID: "app-3", Teams: []Team{TeamTalent}, Data: sampleData()})
		h.Wait()
		require.Empty(t, sender.sent)
		require.Len(t, logs.logs, 1)
		require.Equal(t, dbmodels.NotificationSkipped, logs.logs[0].Status)
	})
}

func TestTemplates(t *testing.T) {
	for _, info := range Templates() {
		rendered, err := Render(info.Tag, SampleData("Sabbatical Program", "https://portal.example.org"))
		require.NoError(t, err, info.Tag)
		require.NotEmpty(t, rendered.Subject, info.Tag)
		require.Contains(t, rendered.Body, "Sabbatical Program", info.Tag)
	}
	_, err := Render("missing", models.TemplateData{})
	require.Error(t, err)
	require.Equal(t, "12 weeks", FormatWeeks(12))
}

func TestPreview(t *testing.T) {
	h := NewInstance(nil, &fakeLogStore{}, nil, Settings{ProgramName: "Sabbatical Program", BaseURL: "https://portal.example.org"})
	rendered, err := h.Preview(TplSubmittedConfirmation)
	require.NoError(t, err)
	require.NotEmpty(t, rendered.Subject)

	_, err = h.Preview("missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
