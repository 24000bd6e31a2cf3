package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text mail with optional file attachments over an
// authenticated SMTP relay.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a message. attachmentPaths may be empty.
func (m *Mailer) Send(to []string, subject, body string, attachmentPaths ...string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	for _, p := range attachmentPaths {
		if _, err := e.AttachFile(p); err != nil {
			return fmt.Errorf("attach %s: %w", p, err)
		}
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return e.Send(addr, auth)
}
