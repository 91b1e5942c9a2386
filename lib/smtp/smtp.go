package smtp

import (
	"bytes"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

var ErrNotConfigured = errors.New("smtp client is not configured")

type Provider interface {
	SendEMail(to, subject, body string) error
}

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	if from == "" {
		from = user
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) SendEMail(to, subject, body string) (err error) {
	logger := log.WithField("recipient", to)
	if i.user == "" || i.host == "" || i.port == "" {
		logger.Warn("email not sent, smtp client is not configured")
		return ErrNotConfigured
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", i.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	buf := new(bytes.Buffer)
	if _, err = msg.WriteTo(buf); err != nil {
		return errors.Wrap(err, "failed to compose email")
	}

	auth := sasl.NewPlainClient("", i.user, i.password)
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.from, []string{to}, buf)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.from, []string{to}, buf)
	}
	if err != nil {
		logger.WithError(err).Error("failed to send email")
		return err
	}
	logger.Info("email sent")
	return nil
}
