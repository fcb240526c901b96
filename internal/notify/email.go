package notify

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

const emailSubject = "🚀 Care Central Bot Notification"

// Email delivers notifications over SMTP.
type Email struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewEmail(host string, port int, user, pass, to string) *Email {
	return &Email{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
		to:     to,
	}
}

func (e *Email) Send(ctx context.Context, message string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", e.from)
	msg.SetHeader("To", e.to)
	msg.SetHeader("Subject", emailSubject)
	msg.SetBody("text/plain", message)

	if err := e.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", e.to, err)
	}
	return nil
}
