package initializers

import (
	"sabbatical-backend/config"
	"sabbatical-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	if config.Conf.Smtp.Host == "" {
		log.Warn("SMTP is not configured, notifications will be logged as skipped")
	}
	err := smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, config.Conf.Smtp.From, *config.Conf.Smtp.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
}
