package utils

import (
	"context"
	"fmt"

	"github.com/meinhoongagan/marketplace/config"
	"gopkg.in/gomail.v2"
)

// Mailer delivers an HTML e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends through gomail. gomail's dialer has no deadline of its
// own, so Send bounds it with cfg.Timeout and the caller's context.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.cfg.User, "Marketplace Support"))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	d.SSL = m.cfg.Port == 465

	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(msg) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", to, ctx.Err())
	}
}

// Mail is the process-wide mailer; main wires the SMTP one, tests swap it.
var Mail Mailer = NewSMTPMailer(config.SMTPConfig{})

// SendEmail delivers through Mail.
func SendEmail(ctx context.Context, to, subject, body string) error {
	return Mail.Send(ctx, to, subject, body)
}

// ResetCodeEmail renders the password reset message.
func ResetCodeEmail(name, code string, ttlMinutes int) (subject, body string) {
	subject = fmt.Sprintf("%s is your verification code", code)
	body = fmt.Sprintf(`
		<div style="text-align:center; font-family: sans-serif; padding: 20px;">
			<p>Hello <b>%s</b>, use the code below to reset your password:</p>
			<div style="background: #f4f4f4; padding: 15px; border-radius: 10px; display: inline-block;">
				<b style="font-size: 32px; letter-spacing: 5px;">%s</b>
			</div>
			<p style="font-size: 12px; color: #777;">Expires in %d minutes.</p>
		</div>
	`, name, code, ttlMinutes)
	return subject, body
}
