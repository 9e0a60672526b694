// Package smtp оборачивает отправку почты через gomail.
package smtp

import (
	"gopkg.in/gomail.v2"

	"github.com/streamingstar/streaming-star/internal/config"
)

// Sender отправляет письма через SMTP-сервер из конфигурации.
type Sender struct {
	cfg config.SMTP
}

// NewSender создает новый экземпляр Sender.
func NewSender(cfg config.SMTP) *Sender {
	return &Sender{cfg: cfg}
}

// Send отправляет письмо с текстовым телом одному получателю.
func (s *Sender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	return d.DialAndSend(m)
}
