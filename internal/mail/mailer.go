// Package mail delivers one-time passcodes to users over email.
package mail

import (
	"fmt"
	"net"
	"net/smtp"

	"fintrack/internal/logger"
)

// Notifier delivers an OTP to a recipient address. Implementations must be
// safe for concurrent use; callers treat delivery failure as non-fatal.
type Notifier interface {
	SendOTP(to, code string) error
}

// Config holds SMTP transport settings. It is passed in explicitly at
// construction time; the mailer never reads the process environment.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPNotifier sends OTP emails through a plain SMTP relay.
type SMTPNotifier struct {
	cfg Config
}

// NewSMTPNotifier creates a Notifier backed by the given SMTP relay.
func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// SendOTP sends the verification email. It blocks until the relay accepts
// or rejects the message; there are no retries.
func (n *SMTPNotifier) SendOTP(to, code string) error {
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	msg := buildOTPMessage(n.cfg.From, to, code)
	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// buildOTPMessage assembles the RFC 5322 message with an HTML body.
func buildOTPMessage(from, to, code string) []byte {
	body := fmt.Sprintf(
		"<h2>OTP Verification</h2>\r\n"+
			"<p>Your OTP code is: <strong>%s</strong></p>\r\n"+
			"<p>This code will expire in 10 minutes.</p>\r\n", code)

	headers := fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: Fintrack - OTP Verification\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n", from, to)

	return []byte(headers + body)
}

// LogNotifier writes codes to the application log instead of sending email.
// Useful for local development where no SMTP relay is configured.
type LogNotifier struct{}

// SendOTP logs the code and always succeeds.
func (LogNotifier) SendOTP(to, code string) error {
	logger.Get().Infow("otp issued (log notifier)", "to", to, "code", code)
	return nil
}
