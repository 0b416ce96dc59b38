package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Email    string
	Password string
}

// Mailer sends moderation decision notifications to listing owners.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
	}
}

func (m *Mailer) SendListingApproved(toEmail, listingTitle string) error {
	body := fmt.Sprintf("Your listing '%s' has been approved and is now visible to everyone.", listingTitle)
	return m.send(toEmail, "Listing Approved", body)
}

func (m *Mailer) SendListingRejected(toEmail, listingTitle string) error {
	body := fmt.Sprintf("Your listing '%s' was rejected by a moderator. You can edit it and resubmit.", listingTitle)
	return m.send(toEmail, "Listing Rejected", body)
}

func (m *Mailer) send(toEmail, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Email)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
