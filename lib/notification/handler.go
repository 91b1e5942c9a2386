package notification

import (
	"sabbatical-backend/config"
	"sabbatical-backend/db"
	notificationlogstore "sabbatical-backend/lib/notification/store"
	"sabbatical-backend/lib/smtp"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	connectionhub "sabbatical-backend/lib/ws/hub/connection-hub"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	wsmodels "sabbatical-backend/models/ws"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Team string

const (
	TeamTalent Team = "talent"
	TeamHR     Team = "hr"
)

type Message struct {
	Template      Tag
	ApplicationID string
	To            []string
	Teams         []Team
	Data          models.TemplateData
}

type Provider interface {
	// Send delivers in the background; failures are only logged.
	Send(msg Message)
	Wait()
	Log(applicationID string) (list []dbmodels.NotificationLog, err error)
	Templates() []TemplateInfo
	Preview(tag Tag) (Rendered, error)
}

var Instance Provider

// Pusher forwards a notification to the recipient's open browser session.
type Pusher interface {
	SendMessage(msg wsmodels.ServerMessage)
}

type Settings struct {
	Enabled     bool
	ProgramName string
	BaseURL     string
	TalentTeam  []string
	HRTeam      []string
}

func NewHandler() {
	talent := config.SplitList(config.Conf.Notification.TalentTeam)
	if len(talent) == 0 {
		talent = config.SplitList(config.Conf.Approvers.TalentEmail)
	}
	hr := config.SplitList(config.Conf.Notification.HRTeam)
	if len(hr) == 0 {
		hr = config.SplitList(config.Conf.Approvers.HREmail)
	}
	var pusher Pusher
	if connectionhub.Instance != nil {
		pusher = connectionhub.Instance
	}
	Instance = NewInstance(smtp.Instance, notificationlogstore.NewInstance(db.DB), pusher, Settings{
		Enabled:     config.Conf.Notification.Enabled == nil || *config.Conf.Notification.Enabled,
		ProgramName: config.Conf.App.ProgramName,
		BaseURL:     config.Conf.App.BaseURL,
		TalentTeam:  talent,
		HRTeam:      hr,
	})
}

// NewInstance builds the sender. pusher may be nil.
func NewInstance(sender smtp.Provider, logStore notificationlogstore.Provider, pusher Pusher, settings Settings) Provider {
	return &impl{
		sender:   sender,
		logStore: logStore,
		pusher:   pusher,
		settings: settings,
	}
}

type impl struct {
	sender   smtp.Provider
	logStore notificationlogstore.Provider
	pusher   Pusher
	settings Settings
	wg       sync.WaitGroup
}

func (i *impl) Send(msg Message) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("template", msg.Template).Errorf("panic while sending notification: %v", r)
			}
		}()
		i.deliver(msg)
	}()
}

func (i *impl) Wait() {
	i.wg.Wait()
}

func (i *impl) Log(applicationID string) ([]dbmodels.NotificationLog, error) {
	list, err := i.logStore.List(applicationID)
	if err != nil {
		return nil, apperrors.Unavailable(err, "list notification log")
	}
	return list, nil
}

func (i *impl) Templates() []TemplateInfo {
	return Templates()
}

func (i *impl) Preview(tag Tag) (Rendered, error) {
	if _, ok := templates[tag]; !ok {
		return Rendered{}, apperrors.NotFound("Template %v not found", tag)
	}
	return Render(tag, SampleData(i.settings.ProgramName, i.link("")))
}

func (i *impl) deliver(msg Message) {
	logger := log.WithFields(log.Fields{
		"template":       msg.Template,
		"application_id": msg.ApplicationID,
	})
	if msg.Data.ProgramName == "" {
		msg.Data.ProgramName = i.settings.ProgramName
	}
	if msg.Data.Link == "" {
		msg.Data.Link = i.link(msg.ApplicationID)
	}
	if msg.Data.ApplicationID == "" {
		msg.Data.ApplicationID = msg.ApplicationID
	}
	rendered, err := Render(msg.Template, msg.Data)
	if err != nil {
		logger.WithError(err).Error("failed to render notification")
		return
	}
	for _, recipient := range i.recipients(msg) {
		rec := dbmodels.NotificationLog{
			ApplicationID: msg.ApplicationID,
			Template:      string(msg.Template),
			Recipient:     recipient,
			Subject:       rendered.Subject,
		}
		switch {
		case !i.settings.Enabled || i.sender == nil:
			rec.Status = dbmodels.NotificationSkipped
		default:
			err = i.sender.SendEMail(recipient, rendered.Subject, rendered.Body)
			switch {
			case err == nil:
				rec.Status = dbmodels.NotificationSent
			case errors.Is(err, smtp.ErrNotConfigured):
				rec.Status = dbmodels.NotificationSkipped
			default:
				rec.Status = dbmodels.NotificationFailed
				rec.Error = err.Error()
				logger.WithField("recipient", recipient).WithError(err).Warn("notification not delivered")
			}
		}
		if _, err = i.logStore.Create(rec); err != nil {
			logger.WithError(err).Error("failed to save notification log")
		}
		if i.pusher != nil {
			i.pusher.SendMessage(wsmodels.ServerMessage{
				ToEmail:       recipient,
				Time:          time.Now().UTC().Format(time.RFC3339),
				Code:          string(msg.Template),
				Msg:           rendered.Subject,
				ApplicationID: msg.ApplicationID,
			})
		}
	}
}

func (i *impl) recipients(msg Message) []string {
	seen := map[string]bool{}
	result := []string{}
	add := func(list []string) {
		for _, email := range list {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || seen[email] {
				continue
			}
			seen[email] = true
			result = append(result, email)
		}
	}
	add(msg.To)
	for _, team := range msg.Teams {
		switch team {
		case TeamTalent:
			add(i.settings.TalentTeam)
		case TeamHR:
			add(i.settings.HRTeam)
		}
	}
	return result
}

func (i *impl) link(applicationID string) string {
	base := strings.TrimRight(i.settings.BaseURL, "/")
	if applicationID == "" {
		return base
	}
	return base + "/applications/" + applicationID
}
