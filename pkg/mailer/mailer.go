package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config is the SMTP connection setup for one send.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
}

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers email messages.
type Sender interface {
	Send(cfg Config, msg Message) error
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct{}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

// Send dials the configured server and delivers the message.
func (s *SMTPSender) Send(cfg Config, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.From, cfg.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML {
		m.SetBody("text/html", msg.Body)
	} else {
		m.SetBody("text/plain", msg.Body)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// Implicit TLS on 465; otherwise gomail upgrades via STARTTLS when the
	// server offers it.
	d.SSL = cfg.UseSSL && cfg.Port == 465

	return d.DialAndSend(m)
}
