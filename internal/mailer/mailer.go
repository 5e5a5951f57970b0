package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer notifies product authors over plain SMTP.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

// SendProductOnModerationEmail tells the author their product was accepted
// and is waiting for moderation.
func (m *SMTPMailer) SendProductOnModerationEmail(toEmail, productName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your product is on moderation")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your product '%s' has been submitted and is waiting for moderation.", productName))

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
