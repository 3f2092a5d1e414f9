// Package email delivers risk alert notifications over SMTP.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/couchcryptid/asset-sentinel/internal/domain"
)

// SMTPSender implements domain.AlertSender via an SMTP server.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a plain-text alert email.
func (s *SMTPSender) Send(_ context.Context, recipient string, payload domain.AlertPayload) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + recipient,
		"Subject: " + subject(payload),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body(payload),
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	// Port 465 uses implicit TLS; 587 uses STARTTLS (smtp.SendMail handles this).
	if s.port == 465 {
		return s.sendImplicitTLS(addr, auth, recipient, []byte(msg))
	}
	return smtp.SendMail(addr, auth, s.from, []string{recipient}, []byte(msg))
}

func (s *SMTPSender) sendImplicitTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	host, _, _ := net.SplitHostPort(addr)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT TO: %w", err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := fmt.Fprint(wc, string(msg)); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	return wc.Close()
}

func subject(p domain.AlertPayload) string {
	return fmt.Sprintf("HIGH RISK ALERT [%d/100]: %s", p.Score, p.AssetName)
}

func body(p domain.AlertPayload) string {
	return strings.Join([]string{
		"A high risk threat was detected for a monitored asset.",
		"",
		"Asset:      " + p.AssetName,
		fmt.Sprintf("Risk Score: %d/100", p.Score),
		"Location:   " + p.Location,
		"Summary:    " + p.Summary,
		"Action:     " + p.Action,
	}, "\n")
}
