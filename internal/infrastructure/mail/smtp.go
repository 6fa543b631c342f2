// Package mail delivers outbound email over SMTP and fans deliveries out
// to a small worker pool so callers never block on a mail server.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// SMTPMailer sends mail through a single SMTP relay using PLAIN auth.
type SMTPMailer struct {
	host        string
	port        int
	username    string
	password    string
	senderEmail string
	senderName  string
}

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
	}
}

// Send delivers one message. net/smtp has no context support, so the send
// runs in a goroutine and ctx cancellation abandons the attempt; the
// connection is left to time out on its own.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	done := make(chan error, 1)
	go func() {
		done <- m.send(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func (m *SMTPMailer) send(msg ports.MailMessage) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.senderName, m.senderEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(addr, auth, m.senderEmail, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
