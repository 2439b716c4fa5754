package portfolio

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers contact-form messages.
type Mailer interface {
	Send(to, subject, replyTo, body string) error
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer using PLAIN auth. The account address
// doubles as the From header.
func NewSMTPMailer(host, port, user, password string) *SMTPMailer {
	return &SMTPMailer{
		host: host,
		port: port,
		from: user,
		auth: smtp.PlainAuth("", user, password, host),
	}
}

func (m *SMTPMailer) Send(to, subject, replyTo, body string) error {
	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Reply-To: " + replyTo + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, m.auth, m.from, []string{to}, msg)
}
