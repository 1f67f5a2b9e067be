package services

import (
	"crypto/tls"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// Mailer delivers generated letters by email. A null implementation is used
// when SMTP is not configured so call sites never branch on availability.
type Mailer interface {
	Enabled() bool
	SendDocument(to []string, subject, body string, attachments ...string) error
}

// NewMailerFromEnv returns the SMTP mailer when SMTP_HOST and SMTP_FROM are
// set, and the null mailer otherwise.
func NewMailerFromEnv() Mailer {
	host := os.Getenv("SMTP_HOST")
	from := os.Getenv("SMTP_FROM") // e.g. "Kastam JB <no-reply@customs.gov.my>"
	if host == "" || from == "" {
		return NullMailer{}
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}

	return &SMTPMailer{
		host:          host,
		port:          port,
		user:          os.Getenv("SMTP_USER"),
		pass:          os.Getenv("SMTP_PASS"),
		from:          from,
		skipTLSVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}
}

// NullMailer silently accepts nothing; Enabled reports false so callers can
// surface "not configured" instead of pretending to send.
type NullMailer struct{}

func (NullMailer) Enabled() bool { return false }

func (NullMailer) SendDocument(to []string, subject, body string, attachments ...string) error {
	return nil
}

// SMTPMailer sends through a STARTTLS SMTP relay.
type SMTPMailer struct {
	host          string
	port          int
	user          string
	pass          string
	from          string
	skipTLSVerify bool
}

func (m *SMTPMailer) Enabled() bool { return true }

func (m *SMTPMailer) SendDocument(to []string, subject, body string, attachments ...string) error {
	if len(to) == 0 {
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	for _, attachment := range attachments {
		msg.Attach(attachment)
	}

	d := mail.NewDialer(m.host, m.port, m.user, m.pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.host,
		InsecureSkipVerify: m.skipTLSVerify,
	}

	return d.DialAndSend(msg)
}
