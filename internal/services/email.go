package services

import (
	"crypto/tls"
	"fmt"
	"html"

	"github.com/princeprakhar/shopfront-api/internal/config"
	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer sends one HTML e-mail.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type EmailService struct {
	config *config.Config
}

// NewEmailService returns nil when no SMTP host is configured.
func NewEmailService(cfg *config.Config) *EmailService {
	if !cfg.MailEnabled() {
		return nil
	}
	return &EmailService{config: cfg}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if s == nil {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if !s.config.IsProduction() {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return d.DialAndSend(m)
}

func orderStatusEmail(order models.Order) (string, string) {
	subject := fmt.Sprintf("Order #%d is now %s", order.ID, order.Status)
	body := fmt.Sprintf(`
		<h2>Order Update</h2>
		<p>Your order <strong>#%d</strong> is now <strong>%s</strong>.</p>
		<p><strong>Total:</strong> %.2f</p>
		<p><strong>Shipping to:</strong> %s</p>
		<p>Best regards,<br>The Shopfront Team</p>
	`, order.ID, order.Status, order.TotalAmount, html.EscapeString(order.ShippingAddress))
	return subject, body
}

func contactReplyEmail(msg models.ContactMessage) (string, string) {
	subject := "Re: " + msg.Subject
	body := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>%s</p>
		<hr>
		<p><em>Your message:</em></p>
		<blockquote>%s</blockquote>
		<p>Best regards,<br>The Shopfront Team</p>
	`, html.EscapeString(msg.Name), html.EscapeString(msg.Response), html.EscapeString(msg.Message))
	return subject, body
}

// sendAsync delivers mail in the background; failures are only logged.
func sendAsync(mailer Mailer, to, subject, body string) {
	if mailer == nil || to == "" {
		return
	}
	go func() {
		if err := mailer.SendEmail(to, subject, body); err != nil {
			logger.WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
				"error":   err.Error(),
			}).Warn("Failed to send email")
			return
		}
		logger.Debug("Email sent to ", to)
	}()
}
