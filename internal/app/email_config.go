package app

import (
	"strings"

	"github.com/charlesng35/corpman/pkg/mail"
)

const defaultFromName = "Corpman"

// SMTPSettings maps the email section onto the mailer. The sender address
// falls back to the SMTP username, which most relays require anyway.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	smtp := c.SMTP
	from := strings.TrimSpace(smtp.From)
	if from == "" {
		from = strings.TrimSpace(smtp.Username)
	}
	fromName := strings.TrimSpace(smtp.FromName)
	if fromName == "" {
		fromName = defaultFromName
	}

	return mail.SMTPSettings{
		Enabled:  smtp.Enabled,
		Host:     strings.TrimSpace(smtp.Host),
		Port:     smtp.Port,
		Username: strings.TrimSpace(smtp.Username),
		Password: smtp.Password,
		From:     from,
		FromName: fromName,
		UseTLS:   smtp.UseTLS,
		Timeout:  smtp.Timeout,
	}
}
