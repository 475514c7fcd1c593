package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"auditex/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending notification emails.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendNotification sends a plain-text email, optionally attaching a file
// passed as in-memory bytes (e.g. a generated declaration report).
func (m *Mailer) SendNotification(to, subject, body string, attachment []byte, filename string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(attachment) > 0 {
		if _, err := e.Attach(bytes.NewReader(attachment), filename, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", filename, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
