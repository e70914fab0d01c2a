// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"strings"
)

// Email is a single outbound message with both plain-text and HTML
// alternatives.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers Email messages over SMTP.
type Sender struct {
	cfg Config
}

// NewSender creates a Sender with the given SMTP settings.
func NewSender(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers the email. The context bounds the whole exchange: when it
// is already cancelled the send is skipped.
func (s *Sender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return fmt.Errorf("email has no recipient")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	msg, err := buildMessage(s.cfg.From, email)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email.To}, msg); err != nil {
		return fmt.Errorf("send to %s: %w", email.To, err)
	}
	return nil
}

// buildMessage renders a multipart/alternative MIME message with text and
// HTML parts, quoted-printable encoded.
func buildMessage(from string, email Email) ([]byte, error) {
	const boundary = "plantdesk-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", email.TextBody},
		{"text/html; charset=UTF-8", email.HTMLBody},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", p.contentType)
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		w := quotedprintable.NewWriter(&b)
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String()), nil
}
