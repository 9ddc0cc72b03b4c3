// Package mailer sends plain SMTP mail. HTML bodies are detected from a
// leading <html> or <p> tag.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Config holds the SMTP server settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers messages through one SMTP server.
type Mailer struct {
	cfg  Config
	send sendFunc
}

// New validates cfg and returns a Mailer.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, errors.New("SMTP host and port must be provided")
	}
	if cfg.Sender == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}, nil
}

// SendEmail sends one message to recipient.
func (m *Mailer) SendEmail(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.Sender, []string{recipient}, BuildMessage(recipient, m.cfg.Sender, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders the RFC 822 message with a content type inferred
// from the body.
func BuildMessage(recipient, sender, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
